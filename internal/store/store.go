// Package store persists the client's durable local state: the session
// token, kept under a fixed key.
package store

import "errors"

// ErrNoToken is returned when no credential has been saved yet.
var ErrNoToken = errors.New("no stored token")

// Credentials is the durable key-value slot holding the session token.
type Credentials interface {
	Token() (string, error)
	SetToken(token string) error
	DeleteToken() error
}
