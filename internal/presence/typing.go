package presence

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"webchat-client/internal/models"
)

// idleAfter is how long after the last keystroke the peer is told we
// stopped composing.
const idleAfter = 3 * time.Second

// ActivityService reports our own composition state to the backend.
type ActivityService interface {
	ChangeUserActivity(ctx context.Context, ev models.ActivityEvent) (models.ActivityEvent, error)
}

// TypingNotifier throttles outgoing typing notifications. Keystrokes
// arrive far faster than the peer needs updates, so a token bucket
// coalesces them; an idle timer flips the state back to default.
type TypingNotifier struct {
	svc     ActivityService
	limiter *rate.Limiter

	mu     sync.Mutex
	sender int
	peer   int
	timer  *time.Timer
}

// NewTypingNotifier builds a notifier allowing r events per second
// with the given burst.
func NewTypingNotifier(svc ActivityService, r float64, burst int) *TypingNotifier {
	return &TypingNotifier{
		svc:     svc,
		limiter: rate.NewLimiter(rate.Limit(r), burst),
	}
}

// SetSender records the logged-in user the events are sent as.
func (n *TypingNotifier) SetSender(id int) {
	n.mu.Lock()
	n.sender = id
	n.mu.Unlock()
}

// Typing reports a keystroke towards the given peer. Calls beyond the
// rate limit only re-arm the idle timer.
func (n *TypingNotifier) Typing(ctx context.Context, peerID int) {
	n.mu.Lock()
	sender := n.sender
	n.peer = peerID
	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(idleAfter, func() { n.Stop(context.Background(), peerID) })
	n.mu.Unlock()

	if sender == 0 || !n.limiter.Allow() {
		return
	}
	n.send(ctx, sender, peerID, models.ActivityTyping)
}

// Stop reports that composing ended, e.g. on send, blur or idle. It is
// not throttled; the peer should always learn we stopped.
func (n *TypingNotifier) Stop(ctx context.Context, peerID int) {
	n.mu.Lock()
	sender := n.sender
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.mu.Unlock()

	if sender == 0 {
		return
	}
	n.send(ctx, sender, peerID, models.ActivityDefault)
}

func (n *TypingNotifier) send(ctx context.Context, sender, peer int, activity models.Activity) {
	_, err := n.svc.ChangeUserActivity(ctx, models.ActivityEvent{
		SenderID:   sender,
		ReceiverID: peer,
		Activity:   activity,
	})
	if err != nil {
		log.Debug().Err(err).Msg("activity change not delivered")
	}
}
