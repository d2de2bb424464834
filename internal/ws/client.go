// Package ws implements the subscription side of the backend contract:
// a graphql-transport-ws client on a single persistent websocket.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"webchat-client/internal/observability"
)

const protocolName = "graphql-transport-ws"

// Frame types of the graphql-transport-ws protocol.
const (
	msgConnectionInit = "connection_init"
	msgConnectionAck  = "connection_ack"
	msgSubscribe      = "subscribe"
	msgNext           = "next"
	msgError          = "error"
	msgComplete       = "complete"
	msgPing           = "ping"
	msgPong           = "pong"
)

const ackTimeout = 10 * time.Second

// ErrClosed is returned by Subscribe after the connection is gone.
var ErrClosed = errors.New("ws: connection closed")

type frame struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type subscribePayload struct {
	Query string `json:"query"`
}

type nextPayload struct {
	Data json.RawMessage `json:"data"`
}

// Subscription is a cancelable handle on one server push stream.
// Payloads arrive on Updates in delivery order. The read loop is the
// only sender on updates and the only closer: the channel closes when
// the server ends the stream or the connection drops. After
// Unsubscribe it simply stops receiving.
type Subscription struct {
	id      string
	name    string
	client  *Client
	updates chan json.RawMessage
	done    chan struct{}
	once    sync.Once
}

// Updates returns the stream of raw `data` payloads.
func (s *Subscription) Updates() <-chan json.RawMessage {
	return s.updates
}

// Unsubscribe tells the server to stop the stream and releases the
// handle. Safe to call more than once, and safe while the read loop is
// blocked delivering into a full buffer.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.client.removeSub(s.id)
		close(s.done)
		_ = s.client.write(frame{ID: s.id, Type: msgComplete})
		observability.DecSubscriptionsActive()
	})
}

// finish ends the stream from the read loop, which as the sole sender
// may close updates without racing a send.
func (s *Subscription) finish() {
	s.once.Do(func() {
		s.client.removeSub(s.id)
		close(s.done)
		close(s.updates)
		observability.DecSubscriptionsActive()
	})
}

// Client is the shared websocket connection all subscriptions ride on.
// Writes are serialized through a mutex; reads happen on one loop
// goroutine, so events are dispatched in arrival order.
type Client struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	subsMu sync.Mutex
	subs   map[string]*Subscription
	nextID int

	done    chan struct{}
	doneErr error
	closeMu sync.Once
}

// Dial connects, performs the connection_init handshake and starts the
// read loop.
func Dial(ctx context.Context, url string) (*Client, error) {
	dialer := websocket.Dialer{Subprotocols: []string{protocolName}}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	c := &Client{
		conn: conn,
		subs: make(map[string]*Subscription),
		done: make(chan struct{}),
	}

	if err := c.write(frame{Type: msgConnectionInit, Payload: json.RawMessage(`{}`)}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connection_init: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(ackTimeout)); err != nil {
		conn.Close()
		return nil, err
	}
	var ack frame
	if err := conn.ReadJSON(&ack); err != nil {
		conn.Close()
		return nil, fmt.Errorf("read connection_ack: %w", err)
	}
	if ack.Type != msgConnectionAck {
		conn.Close()
		return nil, fmt.Errorf("expected connection_ack, got %q", ack.Type)
	}
	if err := conn.SetReadDeadline(time.Time{}); err != nil {
		conn.Close()
		return nil, err
	}

	go c.readLoop()
	return c, nil
}

// Subscribe starts a stream for the given subscription document. The
// name is only used for metrics and logs.
func (c *Client) Subscribe(name, query string) (*Subscription, error) {
	select {
	case <-c.done:
		return nil, ErrClosed
	default:
	}

	c.subsMu.Lock()
	c.nextID++
	id := strconv.Itoa(c.nextID)
	sub := &Subscription{
		id:      id,
		name:    name,
		client:  c,
		updates: make(chan json.RawMessage, 16),
		done:    make(chan struct{}),
	}
	c.subs[id] = sub
	c.subsMu.Unlock()

	payload, _ := json.Marshal(subscribePayload{Query: query})
	if err := c.write(frame{ID: id, Type: msgSubscribe, Payload: payload}); err != nil {
		c.removeSub(id)
		return nil, fmt.Errorf("subscribe %s: %w", name, err)
	}

	observability.IncSubscriptionsActive()
	return sub, nil
}

// Done is closed once the connection is gone; Err then reports why.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err returns the error that terminated the connection, if any.
func (c *Client) Err() error {
	select {
	case <-c.done:
		return c.doneErr
	default:
		return nil
	}
}

// Close tears the connection down and completes every live stream.
func (c *Client) Close() error {
	c.shutdown(nil)
	return c.conn.Close()
}

func (c *Client) write(f frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(f)
}

func (c *Client) removeSub(id string) {
	c.subsMu.Lock()
	delete(c.subs, id)
	c.subsMu.Unlock()
}

func (c *Client) lookupSub(id string) (*Subscription, bool) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	sub, ok := c.subs[id]
	return sub, ok
}

func (c *Client) shutdown(err error) {
	c.closeMu.Do(func() {
		c.doneErr = err
		close(c.done)
	})
}

// readLoop owns every close of a subscription's updates channel; see
// Subscription.finish. On exit it finishes whatever streams remain.
func (c *Client) readLoop() {
	defer func() {
		c.subsMu.Lock()
		subs := make([]*Subscription, 0, len(c.subs))
		for _, sub := range c.subs {
			subs = append(subs, sub)
		}
		c.subs = make(map[string]*Subscription)
		c.subsMu.Unlock()

		for _, sub := range subs {
			sub.finish()
		}
	}()

	for {
		var f frame
		if err := c.conn.ReadJSON(&f); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSError()
				log.Error().Err(err).Msg("websocket read failed")
			}
			c.shutdown(err)
			return
		}

		switch f.Type {
		case msgPing:
			_ = c.write(frame{Type: msgPong})
		case msgNext:
			sub, ok := c.lookupSub(f.ID)
			if !ok {
				continue
			}
			var next nextPayload
			if err := json.Unmarshal(f.Payload, &next); err != nil {
				observability.IncWSError()
				log.Error().Err(err).Str("subscription", sub.name).Msg("malformed next payload")
				continue
			}
			observability.IncSubscriptionEvent(sub.name)
			select {
			case sub.updates <- next.Data:
			case <-sub.done:
			case <-c.done:
				return
			}
		case msgError:
			sub, ok := c.lookupSub(f.ID)
			if !ok {
				continue
			}
			observability.IncWSError()
			log.Error().Str("subscription", sub.name).RawJSON("payload", f.Payload).Msg("subscription error")
			sub.finish()
		case msgComplete:
			if sub, ok := c.lookupSub(f.ID); ok {
				sub.finish()
			}
		}
	}
}
