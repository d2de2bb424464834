package presence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"webchat-client/internal/mocks"
	"webchat-client/internal/models"
	"webchat-client/internal/presence"
)

func TestPeerDefaultsWhenNeverObserved(t *testing.T) {
	tr := presence.NewTracker(new(mocks.APIMock), nil)

	state := tr.Peer(42)
	require.Equal(t, models.StatusOffline, state.Status)
	require.Equal(t, models.ActivityDefault, state.Activity)
}

func TestPrimeFetchesStatusOnce(t *testing.T) {
	dir := new(mocks.APIMock)
	tr := presence.NewTracker(dir, nil)

	dir.On("GetUserByID", mock.Anything, 2).Return(models.User{ID: 2, Status: models.StatusOnline}, nil).Once()

	require.NoError(t, tr.Prime(context.Background(), 2))
	require.Equal(t, models.StatusOnline, tr.Peer(2).Status)
	dir.AssertExpectations(t)
}

func TestPrimeFailureReturnsError(t *testing.T) {
	dir := new(mocks.APIMock)
	tr := presence.NewTracker(dir, nil)

	dir.On("GetUserByID", mock.Anything, 2).Return(models.User{}, assert.AnError).Once()

	require.Error(t, tr.Prime(context.Background(), 2))
	require.Equal(t, models.StatusOffline, tr.Peer(2).Status)
}

func TestApplyStatusLastWriteWins(t *testing.T) {
	tr := presence.NewTracker(new(mocks.APIMock), nil)

	tr.ApplyStatus(models.User{ID: 2, Status: models.StatusOnline})
	tr.ApplyStatus(models.User{ID: 2, Status: models.StatusOffline})
	tr.ApplyStatus(models.User{ID: 2, Status: models.StatusOnline})

	require.Equal(t, models.StatusOnline, tr.Peer(2).Status)
}

func TestApplyActivityFiltersByReceiver(t *testing.T) {
	tr := presence.NewTracker(new(mocks.APIMock), nil)
	tr.SetLoggedUser(1)

	// Addressed to us: applied.
	tr.ApplyActivity(models.ActivityEvent{SenderID: 2, ReceiverID: 1, Activity: models.ActivityTyping})
	require.Equal(t, models.ActivityTyping, tr.Peer(2).Activity)

	// Addressed to someone else: ignored.
	tr.ApplyActivity(models.ActivityEvent{SenderID: 3, ReceiverID: 4, Activity: models.ActivityTyping})
	require.Equal(t, models.ActivityDefault, tr.Peer(3).Activity)
}

func TestActivityIndependentOfStatus(t *testing.T) {
	tr := presence.NewTracker(new(mocks.APIMock), nil)
	tr.SetLoggedUser(1)

	tr.ApplyStatus(models.User{ID: 2, Status: models.StatusOnline})
	tr.ApplyActivity(models.ActivityEvent{SenderID: 2, ReceiverID: 1, Activity: models.ActivityTyping})
	tr.ApplyActivity(models.ActivityEvent{SenderID: 2, ReceiverID: 1, Activity: models.ActivityDefault})

	state := tr.Peer(2)
	require.Equal(t, models.StatusOnline, state.Status)
	require.Equal(t, models.ActivityDefault, state.Activity)
}

func TestOnChangeFires(t *testing.T) {
	changes := 0
	tr := presence.NewTracker(new(mocks.APIMock), func() { changes++ })
	tr.SetLoggedUser(1)

	tr.ApplyStatus(models.User{ID: 2, Status: models.StatusOnline})
	tr.ApplyActivity(models.ActivityEvent{SenderID: 2, ReceiverID: 1, Activity: models.ActivityTyping})

	require.Equal(t, 2, changes)
}
