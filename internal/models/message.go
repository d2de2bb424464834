package models

// MessageStatus is a message's delivery state.
type MessageStatus string

const (
	MessageSent MessageStatus = "sent"
	MessageRead MessageStatus = "read"
)

// Message is a single chat message. Content fields are immutable once
// assigned by the server; only Status changes afterwards.
type Message struct {
	ID         string        `json:"id"`
	Text       string        `json:"message"`
	SenderID   int           `json:"senderId"`
	ReceiverID int           `json:"receiverId"`
	SentAt     string        `json:"sentAt"`
	Status     MessageStatus `json:"status"`
}
