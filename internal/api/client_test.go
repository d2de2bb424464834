package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"webchat-client/internal/api"
	"webchat-client/internal/models"
)

type gqlRequest struct {
	Query     string                     `json:"query"`
	Variables map[string]json.RawMessage `json:"variables"`
}

// gqlServer answers each POST by matching the operation name inside the
// query document.
func gqlServer(t *testing.T, respond func(t *testing.T, req gqlRequest) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(respond(t, req)))
	}))
}

func TestGetUserByTokenDecodesUser(t *testing.T) {
	srv := gqlServer(t, func(t *testing.T, req gqlRequest) string {
		require.Contains(t, req.Query, "getUser")
		require.JSONEq(t, `"tok"`, string(req.Variables["token"]))
		return `{"data":{"getUser":{"id":1,"name":"Ann","username":"@ann","avatar":{"url":"","fallback":"AN"},"status":"online"}}}`
	})
	defer srv.Close()

	c := api.New(srv.URL, srv.Client())
	user, err := c.GetUserByToken(context.Background(), "tok")
	require.NoError(t, err)
	require.Equal(t, models.User{
		ID: 1, Name: "Ann", Username: "@ann",
		Avatar: models.Avatar{Fallback: "AN"},
		Status: models.StatusOnline,
	}, user)
}

func TestGetUserByTokenNullResolvesToNotFound(t *testing.T) {
	srv := gqlServer(t, func(t *testing.T, req gqlRequest) string {
		return `{"data":{"getUser":null}}`
	})
	defer srv.Close()

	c := api.New(srv.URL, srv.Client())
	_, err := c.GetUserByToken(context.Background(), "stale")
	require.ErrorIs(t, err, api.ErrNotFound)
}

func TestGetUserByUsernameZeroIDResolvesToNotFound(t *testing.T) {
	srv := gqlServer(t, func(t *testing.T, req gqlRequest) string {
		return `{"data":{"getUser":{"id":0}}}`
	})
	defer srv.Close()

	c := api.New(srv.URL, srv.Client())
	_, err := c.GetUserByUsername(context.Background(), "@ghost")
	require.ErrorIs(t, err, api.ErrNotFound)
}

func TestLoginReturnsToken(t *testing.T) {
	srv := gqlServer(t, func(t *testing.T, req gqlRequest) string {
		require.JSONEq(t, `"ann@mail.com"`, string(req.Variables["email"]))
		require.JSONEq(t, `"pw"`, string(req.Variables["password"]))
		return `{"data":{"login":"tok-123"}}`
	})
	defer srv.Close()

	c := api.New(srv.URL, srv.Client())
	token, err := c.Login(context.Background(), "ann@mail.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "tok-123", token)
}

func TestGetMessagesPassesPairKey(t *testing.T) {
	srv := gqlServer(t, func(t *testing.T, req gqlRequest) string {
		require.JSONEq(t, `"1,2"`, string(req.Variables["usersIds"]))
		return `{"data":{"getMessages":[
			{"id":"1","message":"hello","senderId":1,"receiverId":2,"sentAt":"2026-08-30T10:00:00Z","status":"read"},
			{"id":"2","message":"hi","senderId":2,"receiverId":1,"sentAt":"2026-08-30T10:01:00Z","status":"sent"}
		]}}`
	})
	defer srv.Close()

	c := api.New(srv.URL, srv.Client())
	msgs, err := c.GetMessages(context.Background(), "1,2")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, "hello", msgs[0].Text)
	require.Equal(t, models.MessageRead, msgs[0].Status)
}

func TestPostMessageReturnsConfirmedRecord(t *testing.T) {
	srv := gqlServer(t, func(t *testing.T, req gqlRequest) string {
		require.JSONEq(t, `"hi"`, string(req.Variables["message"]))
		require.JSONEq(t, `1`, string(req.Variables["senderId"]))
		require.JSONEq(t, `2`, string(req.Variables["receiverId"]))
		return `{"data":{"postMessage":{"id":"7","message":"hi","senderId":1,"receiverId":2,"sentAt":"2026-08-30T10:00:00Z","status":"sent"}}}`
	})
	defer srv.Close()

	c := api.New(srv.URL, srv.Client())
	msg, err := c.PostMessage(context.Background(), "hi", 1, 2)
	require.NoError(t, err)
	require.Equal(t, "7", msg.ID)
	require.Equal(t, models.MessageSent, msg.Status)
}

func TestReadMessageReturnsReceipt(t *testing.T) {
	srv := gqlServer(t, func(t *testing.T, req gqlRequest) string {
		require.JSONEq(t, `5`, string(req.Variables["id"]))
		return `{"data":{"readMessage":{"id":"5","status":"read"}}}`
	})
	defer srv.Close()

	c := api.New(srv.URL, srv.Client())
	receipt, err := c.ReadMessage(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, api.ReadReceipt{ID: "5", Status: models.MessageRead}, receipt)
}

func TestResolverErrorIsWrappedWithOperation(t *testing.T) {
	srv := gqlServer(t, func(t *testing.T, req gqlRequest) string {
		return `{"errors":[{"message":"invalid credentials"}]}`
	})
	defer srv.Close()

	c := api.New(srv.URL, srv.Client())
	_, err := c.Login(context.Background(), "ann@mail.com", "nope")
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "login:"))
	require.Contains(t, err.Error(), "invalid credentials")
}

func TestTransportErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := api.New(srv.URL, srv.Client())
	_, err := c.GetUsers(context.Background())
	require.Error(t, err)
}
