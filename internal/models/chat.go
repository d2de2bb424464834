package models

// Chat is the reconciled view of the active conversation: a fetched
// baseline plus subsequent patches. It is not a persisted entity.
//
// Messages are kept in arrival order; nothing re-sorts them, so
// insertion order is display order.
type Chat struct {
	ID       int       `json:"id"`
	Users    []int     `json:"users"`
	Messages []Message `json:"messages"`
}

// EmptyChat is the sentinel used when no conversation is open.
func EmptyChat() Chat {
	return Chat{ID: 0, Users: []int{}, Messages: []Message{}}
}

// HasPair reports whether the chat is between the two given users,
// order-insensitive.
func (c Chat) HasPair(a, b int) bool {
	if len(c.Users) != 2 {
		return false
	}
	return (c.Users[0] == a && c.Users[1] == b) || (c.Users[0] == b && c.Users[1] == a)
}

// HasUser reports whether the given user is one of the participants.
func (c Chat) HasUser(id int) bool {
	for _, u := range c.Users {
		if u == id {
			return true
		}
	}
	return false
}

// ChatSummary is a sidebar entry returned by the chat listing query.
type ChatSummary struct {
	ID            int    `json:"id"`
	Users         string `json:"users"`
	LastMessageID int    `json:"lastMessageId"`
}
