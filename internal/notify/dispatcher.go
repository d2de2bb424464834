// Package notify decides whether an incoming message should raise an
// out-of-band alert or is already visible in the open conversation.
package notify

import "webchat-client/internal/models"

// ActiveChat reports the currently displayed conversation.
type ActiveChat interface {
	Snapshot() models.Chat
}

// Dispatcher raises alerts for messages addressed to the logged-in
// user that land outside the active chat. There is no queue, no
// suppression window and no deduplication; every qualifying event
// fires once.
type Dispatcher struct {
	active     ActiveChat
	loggedUser func() int
	alert      func(models.Message)
}

// New builds a Dispatcher. alert is invoked synchronously from the
// push dispatch goroutine.
func New(active ActiveChat, loggedUser func() int, alert func(models.Message)) *Dispatcher {
	return &Dispatcher{active: active, loggedUser: loggedUser, alert: alert}
}

// HandleNewMessage inspects one newMessage push event.
func (d *Dispatcher) HandleNewMessage(msg models.Message) {
	me := d.loggedUser()
	if me == 0 || msg.ReceiverID != me || msg.SenderID == me {
		return
	}
	if d.active.Snapshot().HasPair(msg.SenderID, msg.ReceiverID) {
		return
	}
	if d.alert != nil {
		d.alert(msg)
	}
}
