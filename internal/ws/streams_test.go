package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"webchat-client/internal/models"
)

// subscribeAll collects the four registration frames in subscribe
// order: newMessage, messageRead, userStatusSwitched,
// userActivityChanged.
func subscribeAll(t *testing.T, fs *fakeServer, client *Client, handlers Handlers) (*Streams, []frame, *websocket.Conn) {
	t.Helper()
	streams, err := NewStreams(client, handlers)
	require.NoError(t, err)

	regs := make([]frame, 4)
	for i := range regs {
		regs[i] = fs.nextFrame()
		require.Equal(t, msgSubscribe, regs[i].Type)
	}
	return streams, regs, fs.conn()
}

func TestRunDispatchesAcrossStreams(t *testing.T) {
	fs, url := newFakeServer(t)
	client, err := Dial(context.Background(), url)
	require.NoError(t, err)
	defer client.Close()

	statuses := make(chan models.User, 1)
	messages := make(chan models.Message, 1)
	streams, regs, conn := subscribeAll(t, fs, client, Handlers{
		NewMessage:         func(m models.Message) { messages <- m },
		UserStatusSwitched: func(u models.User) { statuses <- u },
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go streams.Run(ctx)

	pushNext(t, conn, regs[0].ID, `{"newMessage":{"id":"9","senderId":2,"receiverId":1,"status":"sent"}}`)
	pushNext(t, conn, regs[2].ID, `{"userStatusSwitched":{"id":2,"status":"online"}}`)

	select {
	case m := <-messages:
		require.Equal(t, "9", m.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("newMessage not dispatched")
	}
	select {
	case u := <-statuses:
		require.Equal(t, models.StatusOnline, u.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("userStatusSwitched not dispatched")
	}
}

func TestRunSurvivesSingleStreamError(t *testing.T) {
	fs, url := newFakeServer(t)
	client, err := Dial(context.Background(), url)
	require.NoError(t, err)
	defer client.Close()

	statuses := make(chan models.User, 1)
	streams, regs, conn := subscribeAll(t, fs, client, Handlers{
		UserStatusSwitched: func(u models.User) { statuses <- u },
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runDone := make(chan error, 1)
	go func() { runDone <- streams.Run(ctx) }()

	// The server errors the newMessage stream; the other three keep
	// delivering.
	require.NoError(t, conn.WriteJSON(frame{
		ID:      regs[0].ID,
		Type:    msgError,
		Payload: json.RawMessage(`[{"message":"boom"}]`),
	}))
	pushNext(t, conn, regs[2].ID, `{"userStatusSwitched":{"id":2,"status":"offline"}}`)

	select {
	case u := <-statuses:
		require.Equal(t, models.StatusOffline, u.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch stopped after a single stream error")
	}
	select {
	case err := <-runDone:
		t.Fatalf("dispatch loop exited: %v", err)
	default:
	}
}
