// Package api talks to the backend's GraphQL endpoint over HTTP.
// Subscriptions travel over a separate websocket transport, see the
// ws package.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/machinebox/graphql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"webchat-client/internal/models"
	"webchat-client/internal/observability"
)

// ErrNotFound is returned when a lookup resolves to no record.
var ErrNotFound = errors.New("not found")

// ReadReceipt is the trimmed payload returned by the readMessage
// mutation.
type ReadReceipt struct {
	ID     string               `json:"id"`
	Status models.MessageStatus `json:"status"`
}

// CreateUserInput carries the fields of the createUser mutation.
type CreateUserInput struct {
	Name           string
	Username       string
	Email          string
	Password       string
	AvatarURL      string
	AvatarFallback string
}

// Client issues queries and mutations against the backend. Every
// operation is attempted exactly once; retrying is left to the human
// re-triggering the action.
type Client struct {
	gql *graphql.Client
}

// New builds a Client for the given endpoint.
func New(endpoint string, httpClient *http.Client) *Client {
	opts := []graphql.ClientOption{}
	if httpClient != nil {
		opts = append(opts, graphql.WithHTTPClient(httpClient))
	}
	return &Client{gql: graphql.NewClient(endpoint, opts...)}
}

func (c *Client) run(ctx context.Context, op string, req *graphql.Request, out any) error {
	ctx, span := otel.Tracer("webchat-client/api").Start(ctx, "graphql."+op)
	defer span.End()
	span.SetAttributes(attribute.String("graphql.operation", op))

	start := time.Now()
	err := c.gql.Run(ctx, req, out)
	observability.ObserveGraphQL(op, err, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUserByToken resolves the user owning a session token.
func (c *Client) GetUserByToken(ctx context.Context, token string) (models.User, error) {
	req := graphql.NewRequest(getUserByTokenQuery)
	req.Var("token", token)

	var resp struct {
		GetUser *models.User `json:"getUser"`
	}
	if err := c.run(ctx, "getUser", req, &resp); err != nil {
		return models.User{}, err
	}
	if resp.GetUser == nil || resp.GetUser.ID == 0 {
		return models.User{}, ErrNotFound
	}
	return *resp.GetUser, nil
}

// GetUserByID fetches a user by id.
func (c *Client) GetUserByID(ctx context.Context, id int) (models.User, error) {
	req := graphql.NewRequest(getUserByIDQuery)
	req.Var("id", id)

	var resp struct {
		GetUser *models.User `json:"getUser"`
	}
	if err := c.run(ctx, "getUser", req, &resp); err != nil {
		return models.User{}, err
	}
	if resp.GetUser == nil || resp.GetUser.ID == 0 {
		return models.User{}, ErrNotFound
	}
	return *resp.GetUser, nil
}

// GetUserByUsername fetches a user by handle. Used by the chat creator
// to resolve a peer before navigating to the conversation.
func (c *Client) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	req := graphql.NewRequest(getUserByUsernameQuery)
	req.Var("username", username)

	var resp struct {
		GetUser *models.User `json:"getUser"`
	}
	if err := c.run(ctx, "getUser", req, &resp); err != nil {
		return models.User{}, err
	}
	if resp.GetUser == nil || resp.GetUser.ID == 0 {
		return models.User{}, ErrNotFound
	}
	return *resp.GetUser, nil
}

// GetUsers lists every user known to the backend.
func (c *Client) GetUsers(ctx context.Context) ([]models.User, error) {
	req := graphql.NewRequest(getUsersQuery)

	var resp struct {
		GetUsers []models.User `json:"getUsers"`
	}
	if err := c.run(ctx, "getUsers", req, &resp); err != nil {
		return nil, err
	}
	return resp.GetUsers, nil
}

// GetChats lists the conversations the user takes part in.
func (c *Client) GetChats(ctx context.Context, userID int) ([]models.ChatSummary, error) {
	req := graphql.NewRequest(getChatsQuery)
	req.Var("userId", userID)

	var resp struct {
		GetChats []models.ChatSummary `json:"getChats"`
	}
	if err := c.run(ctx, "getChats", req, &resp); err != nil {
		return nil, err
	}
	return resp.GetChats, nil
}

// GetMessages fetches the full history between the comma-joined pair.
func (c *Client) GetMessages(ctx context.Context, usersIDs string) ([]models.Message, error) {
	req := graphql.NewRequest(getMessagesQuery)
	req.Var("usersIds", usersIDs)

	var resp struct {
		GetMessages []models.Message `json:"getMessages"`
	}
	if err := c.run(ctx, "getMessages", req, &resp); err != nil {
		return nil, err
	}
	return resp.GetMessages, nil
}

// GetMessage fetches a single message, the sidebar's last-message
// preview.
func (c *Client) GetMessage(ctx context.Context, id int) (models.Message, error) {
	req := graphql.NewRequest(getMessageQuery)
	req.Var("id", id)

	var resp struct {
		GetMessage *models.Message `json:"getMessage"`
	}
	if err := c.run(ctx, "getMessage", req, &resp); err != nil {
		return models.Message{}, err
	}
	if resp.GetMessage == nil {
		return models.Message{}, ErrNotFound
	}
	return *resp.GetMessage, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	req := graphql.NewRequest(loginQuery)
	req.Var("email", email)
	req.Var("password", password)

	var resp struct {
		Login string `json:"login"`
	}
	if err := c.run(ctx, "login", req, &resp); err != nil {
		return "", err
	}
	return resp.Login, nil
}

// CreateUser registers a new account.
func (c *Client) CreateUser(ctx context.Context, in CreateUserInput) (models.User, error) {
	req := graphql.NewRequest(createUserMutation)
	req.Var("name", in.Name)
	req.Var("username", in.Username)
	req.Var("email", in.Email)
	req.Var("password", in.Password)
	req.Var("avatarUrl", in.AvatarURL)
	req.Var("avatarFallback", in.AvatarFallback)

	var resp struct {
		CreateUser models.User `json:"createUser"`
	}
	if err := c.run(ctx, "createUser", req, &resp); err != nil {
		return models.User{}, err
	}
	return resp.CreateUser, nil
}

// SwitchUserStatus flips a user between online and offline.
func (c *Client) SwitchUserStatus(ctx context.Context, id int, status models.UserStatus) (models.User, error) {
	req := graphql.NewRequest(switchUserStatusMutation)
	req.Var("id", id)
	req.Var("status", string(status))

	var resp struct {
		SwitchUserStatus models.User `json:"switchUserStatus"`
	}
	if err := c.run(ctx, "switchUserStatus", req, &resp); err != nil {
		return models.User{}, err
	}
	return resp.SwitchUserStatus, nil
}

// PostMessage sends a message and returns the server-confirmed record
// carrying the assigned id, timestamp and status.
func (c *Client) PostMessage(ctx context.Context, text string, senderID, receiverID int) (models.Message, error) {
	req := graphql.NewRequest(postMessageMutation)
	req.Var("message", text)
	req.Var("senderId", senderID)
	req.Var("receiverId", receiverID)

	var resp struct {
		PostMessage models.Message `json:"postMessage"`
	}
	if err := c.run(ctx, "postMessage", req, &resp); err != nil {
		return models.Message{}, err
	}
	return resp.PostMessage, nil
}

// ReadMessage marks a message as read on the server.
func (c *Client) ReadMessage(ctx context.Context, id int) (ReadReceipt, error) {
	req := graphql.NewRequest(readMessageMutation)
	req.Var("id", id)

	var resp struct {
		ReadMessage ReadReceipt `json:"readMessage"`
	}
	if err := c.run(ctx, "readMessage", req, &resp); err != nil {
		return ReadReceipt{}, err
	}
	return resp.ReadMessage, nil
}

// ChangeUserActivity reports a typing state change to the peer.
func (c *Client) ChangeUserActivity(ctx context.Context, ev models.ActivityEvent) (models.ActivityEvent, error) {
	req := graphql.NewRequest(changeUserActivityMutation)
	req.Var("senderId", ev.SenderID)
	req.Var("receiverId", ev.ReceiverID)
	req.Var("activity", string(ev.Activity))

	var resp struct {
		ChangeUserActivity models.ActivityEvent `json:"changeUserActivity"`
	}
	if err := c.run(ctx, "changeUserActivity", req, &resp); err != nil {
		return models.ActivityEvent{}, err
	}
	return resp.ChangeUserActivity, nil
}
