package models

// Activity is a transient indicator of composition state.
type Activity string

const (
	ActivityTyping  Activity = "typing"
	ActivityDefault Activity = "default"
)

// ActivityEvent is the (sender, receiver, activity) tuple pushed when a
// user starts or stops composing. It is never stored; only the latest
// value per observed direction is retained.
type ActivityEvent struct {
	SenderID   int      `json:"senderId"`
	ReceiverID int      `json:"receiverId"`
	Activity   Activity `json:"activity"`
}
