// Package chat holds the active conversation and reconciles it against
// the fetched baseline, locally issued sends and the push streams.
package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"webchat-client/internal/api"
	"webchat-client/internal/models"
	"webchat-client/internal/observability"
)

// MessageService is the slice of the backend contract the synchronizer
// consumes.
type MessageService interface {
	GetMessages(ctx context.Context, usersIDs string) ([]models.Message, error)
	PostMessage(ctx context.Context, text string, senderID, receiverID int) (models.Message, error)
	ReadMessage(ctx context.Context, id int) (api.ReadReceipt, error)
}

// Synchronizer owns the active chat. Every mutation goes through apply,
// which serializes state changes under one lock and always works on the
// latest value, so concurrent continuations cannot lose updates.
//
// Messages stay in arrival order: initial fetch order, then append
// order. Nothing re-sorts by timestamp.
type Synchronizer struct {
	svc      MessageService
	onChange func()

	mu         sync.Mutex
	active     models.Chat
	loggedUser int
	epoch      uint64
}

// New builds a Synchronizer around the empty sentinel chat. onChange,
// when non-nil, fires after every state change so a renderer can
// refresh; it runs outside the lock.
func New(svc MessageService, onChange func()) *Synchronizer {
	return &Synchronizer{
		svc:      svc,
		onChange: onChange,
		active:   models.EmptyChat(),
	}
}

// SetLoggedUser records the authenticated identity used by the
// membership filters.
func (s *Synchronizer) SetLoggedUser(id int) {
	s.mu.Lock()
	s.loggedUser = id
	s.mu.Unlock()
}

// Snapshot returns a copy of the active chat safe for rendering.
func (s *Synchronizer) Snapshot() models.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.active
	out.Users = append([]int(nil), s.active.Users...)
	out.Messages = append([]models.Message(nil), s.active.Messages...)
	return out
}

// apply runs one serialized state transition and notifies the
// renderer.
func (s *Synchronizer) apply(mutate func()) {
	s.mu.Lock()
	mutate()
	s.mu.Unlock()
	if s.onChange != nil {
		s.onChange()
	}
}

// ParsePairKey splits a comma-joined id pair ("3,7") into its two
// numeric participants.
func ParsePairKey(pairKey string) (int, int, error) {
	parts := strings.Split(pairKey, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("pair key %q: want two comma-joined ids", pairKey)
	}
	a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("pair key %q: %w", pairKey, err)
	}
	b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("pair key %q: %w", pairKey, err)
	}
	return a, b, nil
}

// Open replaces the active chat with the fetched history for the given
// pair. An empty key resets to the empty sentinel. On any failure the
// state is reset rather than left partially populated, and the caller
// is expected to navigate back to the default view; no retry happens
// here.
func (s *Synchronizer) Open(ctx context.Context, pairKey string) error {
	if pairKey == "" {
		s.apply(func() {
			s.active = models.EmptyChat()
			s.epoch++
		})
		return nil
	}

	a, b, err := ParsePairKey(pairKey)
	if err != nil {
		s.apply(func() {
			s.active = models.EmptyChat()
			s.epoch++
		})
		return err
	}

	msgs, err := s.svc.GetMessages(ctx, pairKey)
	if err != nil {
		s.apply(func() {
			s.active = models.EmptyChat()
			s.epoch++
		})
		return fmt.Errorf("open chat %s: %w", pairKey, err)
	}
	if msgs == nil {
		msgs = []models.Message{}
	}

	s.apply(func() {
		s.active = models.Chat{ID: 1, Users: []int{a, b}, Messages: msgs}
		s.epoch++
	})
	log.Debug().Str("pair", pairKey).Int("messages", len(msgs)).Msg("chat opened")
	return nil
}

// ApplyNewMessage handles one newMessage push event. The message is
// appended iff its pair equals the active pair in either order and the
// logged-in user is one of the two parties. Pushes carrying an id
// already present are dropped, which also covers the ack-then-push
// double delivery of our own sends.
func (s *Synchronizer) ApplyNewMessage(msg models.Message) {
	s.apply(func() {
		if !s.active.HasPair(msg.SenderID, msg.ReceiverID) || !s.active.HasUser(s.loggedUser) {
			observability.IncChatEvent("new_message", "dropped")
			return
		}
		if s.hasMessageLocked(msg.ID) {
			observability.IncChatEvent("new_message", "duplicate")
			return
		}
		s.active.Messages = append(s.active.Messages, msg)
		observability.IncChatEvent("new_message", "appended")
	})
}

// ApplyMessageRead handles one messageRead push event: if the event
// belongs to the active chat, the entry with the matching id flips to
// read in place. Unknown ids are a no-op, and re-applying the same
// event changes nothing.
func (s *Synchronizer) ApplyMessageRead(msg models.Message) {
	s.apply(func() {
		if !s.active.HasPair(msg.SenderID, msg.ReceiverID) {
			observability.IncChatEvent("message_read", "dropped")
			return
		}
		if !s.patchStatusLocked(msg.ID, models.MessageRead) {
			observability.IncChatEvent("message_read", "noop")
			return
		}
		observability.IncChatEvent("message_read", "patched")
	})
}

// Send posts a message. Whitespace-only input is silently discarded
// without touching the network. The append happens only after the
// server acknowledges, so the message briefly does not appear locally
// while in flight.
func (s *Synchronizer) Send(ctx context.Context, text string, senderID, receiverID int) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		observability.IncChatEvent("send", "discarded_empty")
		return nil
	}

	msg, err := s.svc.PostMessage(ctx, trimmed, senderID, receiverID)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	s.apply(func() {
		if !s.active.HasPair(msg.SenderID, msg.ReceiverID) {
			observability.IncChatEvent("send", "dropped")
			return
		}
		if s.hasMessageLocked(msg.ID) {
			observability.IncChatEvent("send", "duplicate")
			return
		}
		s.active.Messages = append(s.active.Messages, msg)
		observability.IncChatEvent("send", "appended")
	})
	return nil
}

// MarkAsRead issues the readMessage mutation and patches the local
// entry on acknowledgment. If the chat was replaced wholesale while
// the mutation was in flight, the stale patch is dropped.
func (s *Synchronizer) MarkAsRead(ctx context.Context, messageID string) error {
	id, err := strconv.Atoi(messageID)
	if err != nil {
		return fmt.Errorf("mark as read %q: %w", messageID, err)
	}

	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	receipt, err := s.svc.ReadMessage(ctx, id)
	if err != nil {
		return fmt.Errorf("mark as read %q: %w", messageID, err)
	}

	s.apply(func() {
		if s.epoch != epoch {
			observability.IncChatEvent("mark_read", "stale")
			return
		}
		if !s.patchStatusLocked(receipt.ID, models.MessageRead) {
			observability.IncChatEvent("mark_read", "noop")
			return
		}
		observability.IncChatEvent("mark_read", "patched")
	})
	return nil
}

func (s *Synchronizer) hasMessageLocked(id string) bool {
	for _, m := range s.active.Messages {
		if m.ID == id {
			return true
		}
	}
	return false
}

func (s *Synchronizer) patchStatusLocked(id string, status models.MessageStatus) bool {
	for i := range s.active.Messages {
		if s.active.Messages[i].ID == id {
			s.active.Messages[i].Status = status
			return true
		}
	}
	return false
}
