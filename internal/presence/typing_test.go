package presence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"webchat-client/internal/mocks"
	"webchat-client/internal/models"
	"webchat-client/internal/presence"
)

func TestTypingCoalescesBursts(t *testing.T) {
	svc := new(mocks.APIMock)
	n := presence.NewTypingNotifier(svc, 1, 1)
	n.SetSender(1)

	svc.On("ChangeUserActivity", mock.Anything, models.ActivityEvent{
		SenderID: 1, ReceiverID: 2, Activity: models.ActivityTyping,
	}).Return(models.ActivityEvent{}, nil).Once()
	svc.On("ChangeUserActivity", mock.Anything, models.ActivityEvent{
		SenderID: 1, ReceiverID: 2, Activity: models.ActivityDefault,
	}).Return(models.ActivityEvent{}, nil).Once()

	// A burst of keystrokes produces a single typing notification.
	for i := 0; i < 10; i++ {
		n.Typing(context.Background(), 2)
	}
	n.Stop(context.Background(), 2)

	svc.AssertExpectations(t)
	svc.AssertNumberOfCalls(t, "ChangeUserActivity", 2)
}

func TestStopAlwaysSendsDefault(t *testing.T) {
	svc := new(mocks.APIMock)
	n := presence.NewTypingNotifier(svc, 1, 1)
	n.SetSender(1)

	svc.On("ChangeUserActivity", mock.Anything, models.ActivityEvent{
		SenderID: 1, ReceiverID: 2, Activity: models.ActivityDefault,
	}).Return(models.ActivityEvent{}, nil).Twice()

	// Stop is never throttled, even back to back.
	n.Stop(context.Background(), 2)
	n.Stop(context.Background(), 2)

	svc.AssertExpectations(t)
}

func TestTypingWithoutSenderIsSilent(t *testing.T) {
	svc := new(mocks.APIMock)
	n := presence.NewTypingNotifier(svc, 1, 1)

	n.Typing(context.Background(), 2)
	n.Stop(context.Background(), 2)

	svc.AssertNotCalled(t, "ChangeUserActivity", mock.Anything, mock.Anything)
}
