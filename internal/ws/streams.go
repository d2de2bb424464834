package ws

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"webchat-client/internal/models"
)

// Subscription documents of the backend contract.
const (
	newMessageSubscription = `
subscription NewMessage {
  newMessage {
    id
    message
    senderId
    receiverId
    sentAt
    status
  }
}`

	messageReadSubscription = `
subscription MessageRead {
  messageRead {
    id
    message
    senderId
    receiverId
    sentAt
    status
  }
}`

	userStatusSwitchedSubscription = `
subscription UserStatusSwitched {
  userStatusSwitched {
    id
    name
    username
    avatar {
      url
      fallback
    }
    status
  }
}`

	userActivityChangedSubscription = `
subscription UserActivityChanged {
  userActivityChanged {
    senderId
    receiverId
    activity
  }
}`
)

// Handlers receives decoded push events. Nil entries are skipped.
// Every handler is invoked from a single goroutine, in arrival order,
// so handlers may touch shared state without extra locking as long as
// nothing else does.
type Handlers struct {
	NewMessage         func(models.Message)
	MessageRead        func(models.Message)
	UserStatusSwitched func(models.User)
	UserActivityChange func(models.ActivityEvent)
}

// Streams owns the four logical push streams of the backend.
type Streams struct {
	client   *Client
	handlers Handlers

	newMessage   *Subscription
	messageRead  *Subscription
	userStatus   *Subscription
	userActivity *Subscription
}

// NewStreams subscribes to all four streams on the given connection.
func NewStreams(client *Client, handlers Handlers) (*Streams, error) {
	s := &Streams{client: client, handlers: handlers}

	var err error
	if s.newMessage, err = client.Subscribe("newMessage", newMessageSubscription); err != nil {
		return nil, err
	}
	if s.messageRead, err = client.Subscribe("messageRead", messageReadSubscription); err != nil {
		return nil, err
	}
	if s.userStatus, err = client.Subscribe("userStatusSwitched", userStatusSwitchedSubscription); err != nil {
		return nil, err
	}
	if s.userActivity, err = client.Subscribe("userActivityChanged", userActivityChangedSubscription); err != nil {
		return nil, err
	}
	return s, nil
}

// Run dispatches events until the context is canceled or the
// connection drops. It returns the connection error, if any. A stream
// that ends on its own, e.g. via a server error frame, is disabled by
// nilling its channel; the remaining streams keep dispatching.
func (s *Streams) Run(ctx context.Context) error {
	newMessage := s.newMessage.Updates()
	messageRead := s.messageRead.Updates()
	userStatus := s.userStatus.Updates()
	userActivity := s.userActivity.Updates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.client.Done():
			return s.client.Err()
		case raw, ok := <-newMessage:
			if !ok {
				log.Warn().Str("subscription", "newMessage").Msg("push stream ended")
				newMessage = nil
				continue
			}
			s.dispatchNewMessage(raw)
		case raw, ok := <-messageRead:
			if !ok {
				log.Warn().Str("subscription", "messageRead").Msg("push stream ended")
				messageRead = nil
				continue
			}
			s.dispatchMessageRead(raw)
		case raw, ok := <-userStatus:
			if !ok {
				log.Warn().Str("subscription", "userStatusSwitched").Msg("push stream ended")
				userStatus = nil
				continue
			}
			s.dispatchUserStatus(raw)
		case raw, ok := <-userActivity:
			if !ok {
				log.Warn().Str("subscription", "userActivityChanged").Msg("push stream ended")
				userActivity = nil
				continue
			}
			s.dispatchUserActivity(raw)
		}
	}
}

func (s *Streams) dispatchNewMessage(raw json.RawMessage) {
	var payload struct {
		NewMessage models.Message `json:"newMessage"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("decode newMessage event")
		return
	}
	if s.handlers.NewMessage != nil {
		s.handlers.NewMessage(payload.NewMessage)
	}
}

func (s *Streams) dispatchMessageRead(raw json.RawMessage) {
	var payload struct {
		MessageRead models.Message `json:"messageRead"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("decode messageRead event")
		return
	}
	if s.handlers.MessageRead != nil {
		s.handlers.MessageRead(payload.MessageRead)
	}
}

func (s *Streams) dispatchUserStatus(raw json.RawMessage) {
	var payload struct {
		UserStatusSwitched models.User `json:"userStatusSwitched"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("decode userStatusSwitched event")
		return
	}
	if s.handlers.UserStatusSwitched != nil {
		s.handlers.UserStatusSwitched(payload.UserStatusSwitched)
	}
}

func (s *Streams) dispatchUserActivity(raw json.RawMessage) {
	var payload struct {
		UserActivityChanged models.ActivityEvent `json:"userActivityChanged"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("decode userActivityChanged event")
		return
	}
	if s.handlers.UserActivityChange != nil {
		s.handlers.UserActivityChange(payload.UserActivityChanged)
	}
}
