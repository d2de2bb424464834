package models

// UserStatus is a user's coarse connectivity state.
type UserStatus string

const (
	StatusOnline  UserStatus = "online"
	StatusOffline UserStatus = "offline"
)

// Avatar points at a user's picture plus the initials shown when it
// cannot be loaded.
type Avatar struct {
	URL      string `json:"url"`
	Fallback string `json:"fallback"`
}

// User is the identity record served by the backend. It is never
// mutated locally except through status-switch events.
type User struct {
	ID       int        `json:"id"`
	Name     string     `json:"name"`
	Username string     `json:"username"`
	Avatar   Avatar     `json:"avatar"`
	Status   UserStatus `json:"status"`
}
