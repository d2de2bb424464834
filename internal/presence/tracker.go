// Package presence keeps per-peer ephemeral state: connectivity and
// typing activity. Both cells are independent of chat state and free
// of ordering logic; the latest push always wins.
package presence

import (
	"context"
	"fmt"
	"sync"

	"webchat-client/internal/models"
)

// Identity is the lookup used to prime a peer's status once on load.
type Identity interface {
	GetUserByID(ctx context.Context, id int) (models.User, error)
}

// PeerState is the rendered view of one peer.
type PeerState struct {
	Status   models.UserStatus
	Activity models.Activity
}

// Tracker holds one status cell and one activity cell per observed
// peer. Status is primed synchronously on first load and then kept
// live only by push events; there is no polling.
type Tracker struct {
	dir      Identity
	onChange func()

	mu         sync.RWMutex
	loggedUser int
	status     map[int]models.UserStatus
	activity   map[int]models.Activity
}

// NewTracker builds an empty tracker. onChange, when non-nil, fires
// after every cell update.
func NewTracker(dir Identity, onChange func()) *Tracker {
	return &Tracker{
		dir:      dir,
		onChange: onChange,
		status:   make(map[int]models.UserStatus),
		activity: make(map[int]models.Activity),
	}
}

// SetLoggedUser records the identity incoming activity events are
// filtered against.
func (t *Tracker) SetLoggedUser(id int) {
	t.mu.Lock()
	t.loggedUser = id
	t.mu.Unlock()
}

// Prime fetches a peer's current status once. Afterwards only push
// events update the cell.
func (t *Tracker) Prime(ctx context.Context, peerID int) error {
	user, err := t.dir.GetUserByID(ctx, peerID)
	if err != nil {
		return fmt.Errorf("prime presence for %d: %w", peerID, err)
	}

	t.mu.Lock()
	t.status[user.ID] = user.Status
	t.mu.Unlock()
	t.notify()
	return nil
}

// ApplyStatus handles one userStatusSwitched push event. Last write
// wins; out-of-sequence events are not reordered.
func (t *Tracker) ApplyStatus(user models.User) {
	t.mu.Lock()
	t.status[user.ID] = user.Status
	t.mu.Unlock()
	t.notify()
}

// ApplyActivity handles one userActivityChanged push event. Only
// events addressed to the logged-in user touch a cell, keyed by the
// sender.
func (t *Tracker) ApplyActivity(ev models.ActivityEvent) {
	t.mu.Lock()
	if ev.ReceiverID != t.loggedUser {
		t.mu.Unlock()
		return
	}
	t.activity[ev.SenderID] = ev.Activity
	t.mu.Unlock()
	t.notify()
}

// Peer returns a peer's current cells, defaulting to offline and
// not-typing for peers never observed.
func (t *Tracker) Peer(id int) PeerState {
	t.mu.RLock()
	defer t.mu.RUnlock()

	state := PeerState{Status: models.StatusOffline, Activity: models.ActivityDefault}
	if s, ok := t.status[id]; ok {
		state.Status = s
	}
	if a, ok := t.activity[id]; ok {
		state.Activity = a
	}
	return state
}

func (t *Tracker) notify() {
	if t.onChange != nil {
		t.onChange()
	}
}
