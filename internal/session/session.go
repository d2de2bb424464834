// Package session holds the authenticated identity and the navigation
// decisions around it. Access control here is navigation-level: a
// missing or invalid credential routes to the login view, a
// conversation the user is not part of routes home.
package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"webchat-client/internal/api"
	"webchat-client/internal/models"
	"webchat-client/internal/store"
)

// Route is the navigation outcome of a session check.
type Route int

const (
	RouteStay Route = iota
	RouteHome
	RouteLogin
)

// Validation errors, surfaced inline on the form rather than thrown.
var (
	ErrInvalidEmail     = errors.New("email must match the example: example@email.com")
	ErrPasswordMismatch = errors.New("the passwords are different")
	ErrEmptyField       = errors.New("all fields are required")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s.]+\.[^\s]+$`)

// Directory is the slice of the backend contract the session consumes.
type Directory interface {
	GetUserByToken(ctx context.Context, token string) (models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	CreateUser(ctx context.Context, in api.CreateUserInput) (models.User, error)
	SwitchUserStatus(ctx context.Context, id int, status models.UserStatus) (models.User, error)
}

// RegisterInput carries the raw registration form fields.
type RegisterInput struct {
	Name           string
	Username       string
	Email          string
	AvatarURL      string
	Password       string
	RepeatPassword string
}

// Session is the single slot holding the authenticated user.
type Session struct {
	dir   Directory
	creds store.Credentials

	mu   sync.RWMutex
	user *models.User
}

// New builds an empty session.
func New(dir Directory, creds store.Credentials) *Session {
	return &Session{dir: dir, creds: creds}
}

// User returns the logged-in user, if any.
func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// UserID returns the logged-in user's id, or zero.
func (s *Session) UserID() int {
	u, ok := s.User()
	if !ok {
		return 0
	}
	return u.ID
}

// Verify validates the stored credential once per load. pairKey is the
// conversation the caller wants to open, empty for none; a valid user
// that is not part of that pair is routed home.
func (s *Session) Verify(ctx context.Context, pairKey string) (Route, error) {
	token, err := s.creds.Token()
	if errors.Is(err, store.ErrNoToken) {
		return RouteLogin, nil
	}
	if err != nil {
		return RouteLogin, err
	}

	user, err := s.dir.GetUserByToken(ctx, token)
	if errors.Is(err, api.ErrNotFound) {
		return RouteLogin, nil
	}
	if err != nil {
		return RouteLogin, fmt.Errorf("verify login: %w", err)
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()

	if pairKey != "" && !pairContains(pairKey, user.ID) {
		return RouteHome, nil
	}
	return RouteStay, nil
}

// Login exchanges credentials for a token and persists it.
func (s *Session) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return ErrEmptyField
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}

	token, err := s.dir.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := s.creds.SetToken(token); err != nil {
		return err
	}
	log.Info().Msg("logged in")
	return nil
}

// Register validates the form, normalizes the handle, derives the
// avatar fallback and creates the account. On success it logs the new
// user straight in.
func (s *Session) Register(ctx context.Context, in RegisterInput) error {
	if in.Name == "" || in.Username == "" || in.Email == "" || in.Password == "" {
		return ErrEmptyField
	}
	if !emailPattern.MatchString(in.Email) {
		return ErrInvalidEmail
	}
	if in.Password != in.RepeatPassword {
		return ErrPasswordMismatch
	}

	_, err := s.dir.CreateUser(ctx, api.CreateUserInput{
		Name:           in.Name,
		Username:       NormalizeUsername(in.Username),
		Email:          in.Email,
		Password:       in.Password,
		AvatarURL:      in.AvatarURL,
		AvatarFallback: AvatarFallback(in.Name),
	})
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	return s.Login(ctx, in.Email, in.Password)
}

// Logout removes the stored credential and clears the slot.
func (s *Session) Logout() error {
	if err := s.creds.DeleteToken(); err != nil {
		return err
	}
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	log.Info().Msg("logged out")
	return nil
}

// SwitchStatus flips the logged user between online and offline and
// keeps the local copy in sync with the confirmed record.
func (s *Session) SwitchStatus(ctx context.Context, status models.UserStatus) error {
	u, ok := s.User()
	if !ok {
		return nil
	}

	updated, err := s.dir.SwitchUserStatus(ctx, u.ID, status)
	if err != nil {
		return fmt.Errorf("switch status: %w", err)
	}

	s.mu.Lock()
	s.user = &updated
	s.mu.Unlock()
	return nil
}

// NormalizeUsername gives the handle its canonical shape: a leading
// "@", lowercase, spaces replaced by underscores.
func NormalizeUsername(username string) string {
	if !strings.Contains(username, "@") {
		username = "@" + username
	}
	username = strings.ToLower(username)
	return strings.ReplaceAll(username, " ", "_")
}

// AvatarFallback derives the initials shown when the avatar image is
// unavailable: first letters of the first two name words, or the first
// two letters of a single word, uppercased.
func AvatarFallback(name string) string {
	words := strings.Fields(name)
	switch {
	case len(words) == 0:
		return ""
	case len(words) == 1:
		runes := []rune(words[0])
		if len(runes) == 1 {
			return strings.ToUpper(string(runes[0]))
		}
		return strings.ToUpper(string(runes[:2]))
	default:
		a := []rune(words[0])
		b := []rune(words[1])
		return strings.ToUpper(string(a[0]) + string(b[0]))
	}
}

func pairContains(pairKey string, userID int) bool {
	for _, part := range strings.Split(pairKey, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err == nil && id == userID {
			return true
		}
	}
	return false
}
