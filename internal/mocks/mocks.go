package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"webchat-client/internal/api"
	"webchat-client/internal/chat"
	"webchat-client/internal/models"
	"webchat-client/internal/presence"
	"webchat-client/internal/session"
	"webchat-client/internal/store"
)

// APIMock covers the whole backend contract so each consumer can slice
// off the part it needs.
type APIMock struct {
	mock.Mock
}

func (m *APIMock) GetUserByToken(ctx context.Context, token string) (models.User, error) {
	args := m.Called(ctx, token)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *APIMock) GetUserByID(ctx context.Context, id int) (models.User, error) {
	args := m.Called(ctx, id)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *APIMock) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *APIMock) GetUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *APIMock) GetChats(ctx context.Context, userID int) ([]models.ChatSummary, error) {
	args := m.Called(ctx, userID)
	var chats []models.ChatSummary
	if val := args.Get(0); val != nil {
		chats = val.([]models.ChatSummary)
	}
	return chats, args.Error(1)
}

func (m *APIMock) GetMessages(ctx context.Context, usersIDs string) ([]models.Message, error) {
	args := m.Called(ctx, usersIDs)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *APIMock) GetMessage(ctx context.Context, id int) (models.Message, error) {
	args := m.Called(ctx, id)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *APIMock) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *APIMock) CreateUser(ctx context.Context, in api.CreateUserInput) (models.User, error) {
	args := m.Called(ctx, in)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *APIMock) SwitchUserStatus(ctx context.Context, id int, status models.UserStatus) (models.User, error) {
	args := m.Called(ctx, id, status)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *APIMock) PostMessage(ctx context.Context, text string, senderID, receiverID int) (models.Message, error) {
	args := m.Called(ctx, text, senderID, receiverID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *APIMock) ReadMessage(ctx context.Context, id int) (api.ReadReceipt, error) {
	args := m.Called(ctx, id)
	var receipt api.ReadReceipt
	if val := args.Get(0); val != nil {
		receipt = val.(api.ReadReceipt)
	}
	return receipt, args.Error(1)
}

func (m *APIMock) ChangeUserActivity(ctx context.Context, ev models.ActivityEvent) (models.ActivityEvent, error) {
	args := m.Called(ctx, ev)
	var out models.ActivityEvent
	if val := args.Get(0); val != nil {
		out = val.(models.ActivityEvent)
	}
	return out, args.Error(1)
}

// CredentialsMock fakes the durable token slot.
type CredentialsMock struct {
	mock.Mock
}

func (m *CredentialsMock) Token() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *CredentialsMock) SetToken(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *CredentialsMock) DeleteToken() error {
	args := m.Called()
	return args.Error(0)
}

var _ chat.MessageService = (*APIMock)(nil)
var _ session.Directory = (*APIMock)(nil)
var _ presence.Identity = (*APIMock)(nil)
var _ presence.ActivityService = (*APIMock)(nil)
var _ store.Credentials = (*CredentialsMock)(nil)
