package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"webchat-client/internal/api"
	"webchat-client/internal/mocks"
	"webchat-client/internal/models"
	"webchat-client/internal/session"
	"webchat-client/internal/store"
)

func TestVerifyRoutesToLoginWithoutToken(t *testing.T) {
	creds := new(mocks.CredentialsMock)
	creds.On("Token").Return("", store.ErrNoToken).Once()

	s := session.New(new(mocks.APIMock), creds)

	route, err := s.Verify(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, session.RouteLogin, route)
	require.Zero(t, s.UserID())
}

func TestVerifyRoutesToLoginOnRejectedToken(t *testing.T) {
	creds := new(mocks.CredentialsMock)
	creds.On("Token").Return("stale", nil).Once()
	dir := new(mocks.APIMock)
	dir.On("GetUserByToken", mock.Anything, "stale").Return(models.User{}, api.ErrNotFound).Once()

	s := session.New(dir, creds)

	route, err := s.Verify(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, session.RouteLogin, route)
}

func TestVerifyStaysForMemberOfPair(t *testing.T) {
	creds := new(mocks.CredentialsMock)
	creds.On("Token").Return("tok", nil).Once()
	dir := new(mocks.APIMock)
	dir.On("GetUserByToken", mock.Anything, "tok").Return(models.User{ID: 1, Name: "Ann"}, nil).Once()

	s := session.New(dir, creds)

	route, err := s.Verify(context.Background(), "1,2")
	require.NoError(t, err)
	require.Equal(t, session.RouteStay, route)
	require.Equal(t, 1, s.UserID())
}

func TestVerifyRoutesHomeWhenNotInPair(t *testing.T) {
	creds := new(mocks.CredentialsMock)
	creds.On("Token").Return("tok", nil).Once()
	dir := new(mocks.APIMock)
	dir.On("GetUserByToken", mock.Anything, "tok").Return(models.User{ID: 9}, nil).Once()

	s := session.New(dir, creds)

	route, err := s.Verify(context.Background(), "1,2")
	require.NoError(t, err)
	require.Equal(t, session.RouteHome, route)
	// The identity is still established; only the navigation changes.
	require.Equal(t, 9, s.UserID())
}

func TestLoginValidatesBeforeCallingBackend(t *testing.T) {
	dir := new(mocks.APIMock)
	s := session.New(dir, new(mocks.CredentialsMock))

	require.ErrorIs(t, s.Login(context.Background(), "", "pw"), session.ErrEmptyField)
	require.ErrorIs(t, s.Login(context.Background(), "not-an-email", "pw"), session.ErrInvalidEmail)
	require.ErrorIs(t, s.Login(context.Background(), "a@b", "pw"), session.ErrInvalidEmail)

	dir.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginStoresToken(t *testing.T) {
	dir := new(mocks.APIMock)
	dir.On("Login", mock.Anything, "ann@mail.com", "pw").Return("tok", nil).Once()
	creds := new(mocks.CredentialsMock)
	creds.On("SetToken", "tok").Return(nil).Once()

	s := session.New(dir, creds)

	require.NoError(t, s.Login(context.Background(), "ann@mail.com", "pw"))
	creds.AssertExpectations(t)
}

func TestLoginSurfacesBackendError(t *testing.T) {
	dir := new(mocks.APIMock)
	dir.On("Login", mock.Anything, "ann@mail.com", "nope").Return("", assert.AnError).Once()
	creds := new(mocks.CredentialsMock)

	s := session.New(dir, creds)

	require.Error(t, s.Login(context.Background(), "ann@mail.com", "nope"))
	creds.AssertNotCalled(t, "SetToken", mock.Anything)
}

func TestRegisterValidation(t *testing.T) {
	dir := new(mocks.APIMock)
	s := session.New(dir, new(mocks.CredentialsMock))

	require.ErrorIs(t, s.Register(context.Background(), session.RegisterInput{
		Username: "ann", Email: "ann@mail.com", Password: "pw", RepeatPassword: "pw",
	}), session.ErrEmptyField)

	require.ErrorIs(t, s.Register(context.Background(), session.RegisterInput{
		Name: "Ann", Username: "ann", Email: "ann@mail", Password: "pw", RepeatPassword: "pw",
	}), session.ErrInvalidEmail)

	require.ErrorIs(t, s.Register(context.Background(), session.RegisterInput{
		Name: "Ann", Username: "ann", Email: "ann@mail.com", Password: "pw", RepeatPassword: "other",
	}), session.ErrPasswordMismatch)

	dir.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestRegisterNormalizesAndLogsIn(t *testing.T) {
	dir := new(mocks.APIMock)
	dir.On("CreateUser", mock.Anything, api.CreateUserInput{
		Name:           "Ann Lee",
		Username:       "@ann_lee",
		Email:          "ann@mail.com",
		Password:       "pw",
		AvatarFallback: "AL",
	}).Return(models.User{ID: 3}, nil).Once()
	dir.On("Login", mock.Anything, "ann@mail.com", "pw").Return("tok", nil).Once()
	creds := new(mocks.CredentialsMock)
	creds.On("SetToken", "tok").Return(nil).Once()

	s := session.New(dir, creds)

	require.NoError(t, s.Register(context.Background(), session.RegisterInput{
		Name:           "Ann Lee",
		Username:       "Ann Lee",
		Email:          "ann@mail.com",
		Password:       "pw",
		RepeatPassword: "pw",
	}))
	dir.AssertExpectations(t)
	creds.AssertExpectations(t)
}

func TestLogoutClearsCredentialAndSlot(t *testing.T) {
	creds := new(mocks.CredentialsMock)
	creds.On("Token").Return("tok", nil).Once()
	creds.On("DeleteToken").Return(nil).Once()
	dir := new(mocks.APIMock)
	dir.On("GetUserByToken", mock.Anything, "tok").Return(models.User{ID: 1}, nil).Once()

	s := session.New(dir, creds)
	_, err := s.Verify(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 1, s.UserID())

	require.NoError(t, s.Logout())
	require.Zero(t, s.UserID())
	creds.AssertExpectations(t)
}

func TestSwitchStatusUpdatesLocalCopy(t *testing.T) {
	creds := new(mocks.CredentialsMock)
	creds.On("Token").Return("tok", nil).Once()
	dir := new(mocks.APIMock)
	dir.On("GetUserByToken", mock.Anything, "tok").Return(models.User{ID: 1, Status: models.StatusOffline}, nil).Once()
	dir.On("SwitchUserStatus", mock.Anything, 1, models.StatusOnline).Return(models.User{ID: 1, Status: models.StatusOnline}, nil).Once()

	s := session.New(dir, creds)
	_, err := s.Verify(context.Background(), "")
	require.NoError(t, err)

	require.NoError(t, s.SwitchStatus(context.Background(), models.StatusOnline))
	u, ok := s.User()
	require.True(t, ok)
	require.Equal(t, models.StatusOnline, u.Status)
}

func TestSwitchStatusWithoutUserIsNoop(t *testing.T) {
	dir := new(mocks.APIMock)
	s := session.New(dir, new(mocks.CredentialsMock))

	require.NoError(t, s.SwitchStatus(context.Background(), models.StatusOnline))
	dir.AssertNotCalled(t, "SwitchUserStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestNormalizeUsername(t *testing.T) {
	cases := map[string]string{
		"Ann Lee":  "@ann_lee",
		"@Already": "@already",
		"plain":    "@plain",
	}
	for in, want := range cases {
		assert.Equal(t, want, session.NormalizeUsername(in))
	}
}

func TestAvatarFallback(t *testing.T) {
	cases := map[string]string{
		"Ann Lee":        "AL",
		"Ann Lee Carter": "AL",
		"ann":            "AN",
		"a":              "A",
		"":               "",
	}
	for in, want := range cases {
		assert.Equal(t, want, session.AvatarFallback(in))
	}
}
