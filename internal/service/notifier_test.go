package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"runrun-service/internal/events"
	"runrun-service/internal/mocks"
	"runrun-service/internal/models"
	"runrun-service/internal/push"
	"runrun-service/internal/repositories"
)

var (
	t0 = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
)

func request(status models.FriendRequestStatus, createdAt time.Time) models.FriendRequest {
	return models.FriendRequest{
		ID:              "req-1",
		FromUserID:      "U1",
		FromDisplayName: "Alice",
		ToUserID:        "U2",
		Status:          status,
		CreatedAt:       createdAt,
	}
}

func TestClassifyUpdate(t *testing.T) {
	cases := []struct {
		name    string
		before  models.FriendRequest
		after   models.FriendRequest
		outcome UpdateOutcome
	}{
		{"pending to accepted", request(models.StatusPending, t0), request(models.StatusAccepted, t0), OutcomeAccepted},
		{"rejected to accepted", request(models.StatusRejected, t0), request(models.StatusAccepted, t0), OutcomeAccepted},
		{"already accepted", request(models.StatusAccepted, t0), request(models.StatusAccepted, t0), OutcomeNone},
		{"resend bumps created_at", request(models.StatusPending, t0), request(models.StatusPending, t1), OutcomeResend},
		{"rejected then resent", request(models.StatusRejected, t0), request(models.StatusPending, t1), OutcomeResend},
		{"pending to rejected", request(models.StatusPending, t0), request(models.StatusRejected, t0), OutcomeNone},
		{"pending unchanged", request(models.StatusPending, t0), request(models.StatusPending, t0), OutcomeNone},
		{"accepted wins over created_at bump", request(models.StatusPending, t0), request(models.StatusAccepted, t1), OutcomeAccepted},
		{"accepted to rejected", request(models.StatusAccepted, t0), request(models.StatusRejected, t0), OutcomeNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.outcome, ClassifyUpdate(tc.before, tc.after))
		})
	}
}

func TestHandleRequestCreatedSendsPush(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	sender := new(mocks.SenderMock)
	notifier := NewNotifier(users, sender)

	users.On("GetProfile", mock.Anything, "U2").Return(models.UserProfile{ID: "U2", DisplayName: "Bob", FCMToken: "tok2"}, nil).Once()
	sender.On("Send", mock.Anything, mock.MatchedBy(func(n push.Notification) bool {
		return n.Token == "tok2" &&
			n.Type == push.TypeFriendRequest &&
			n.Data["request_id"] == "req-1" &&
			n.Data["type"] == push.TypeFriendRequest &&
			len(n.BodyArgs) == 1 && n.BodyArgs[0] == "Alice"
	})).Return(nil).Once()

	err := notifier.HandleRequestCreated(context.Background(), events.FriendRequestCreated{
		RequestID: "req-1",
		Request:   request(models.StatusPending, t0),
	})

	require.NoError(t, err)
	users.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestHandleRequestCreatedRecipientMissing(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	sender := new(mocks.SenderMock)
	notifier := NewNotifier(users, sender)

	users.On("GetProfile", mock.Anything, "U2").Return(models.UserProfile{}, repositories.ErrProfileNotFound).Once()

	err := notifier.HandleRequestCreated(context.Background(), events.FriendRequestCreated{
		RequestID: "req-1",
		Request:   request(models.StatusPending, t0),
	})

	require.NoError(t, err)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestHandleRequestCreatedRecipientTokenless(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	sender := new(mocks.SenderMock)
	notifier := NewNotifier(users, sender)

	users.On("GetProfile", mock.Anything, "U2").Return(models.UserProfile{ID: "U2", DisplayName: "Bob"}, nil).Once()

	err := notifier.HandleRequestCreated(context.Background(), events.FriendRequestCreated{
		RequestID: "req-1",
		Request:   request(models.StatusPending, t0),
	})

	require.NoError(t, err)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestHandleRequestCreatedSendFailureSwallowed(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	sender := new(mocks.SenderMock)
	notifier := NewNotifier(users, sender)

	users.On("GetProfile", mock.Anything, "U2").Return(models.UserProfile{ID: "U2", FCMToken: "tok2"}, nil).Once()
	sender.On("Send", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	err := notifier.HandleRequestCreated(context.Background(), events.FriendRequestCreated{
		RequestID: "req-1",
		Request:   request(models.StatusPending, t0),
	})

	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestHandleRequestCreatedRepoError(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	sender := new(mocks.SenderMock)
	notifier := NewNotifier(users, sender)

	users.On("GetProfile", mock.Anything, "U2").Return(models.UserProfile{}, assert.AnError).Once()

	err := notifier.HandleRequestCreated(context.Background(), events.FriendRequestCreated{
		RequestID: "req-1",
		Request:   request(models.StatusPending, t0),
	})

	require.Error(t, err)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestHandleRequestUpdatedAcceptedNotifiesSender(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	sender := new(mocks.SenderMock)
	notifier := NewNotifier(users, sender)

	users.On("GetProfile", mock.Anything, "U2").Return(models.UserProfile{ID: "U2", DisplayName: "Bob", FCMToken: "tok2"}, nil).Once()
	users.On("GetProfile", mock.Anything, "U1").Return(models.UserProfile{ID: "U1", DisplayName: "Alice", FCMToken: "tok1"}, nil).Once()
	sender.On("Send", mock.Anything, mock.MatchedBy(func(n push.Notification) bool {
		return n.Token == "tok1" &&
			n.Type == push.TypeFriendAccepted &&
			len(n.BodyArgs) == 1 && n.BodyArgs[0] == "Bob"
	})).Return(nil).Once()

	err := notifier.HandleRequestUpdated(context.Background(), events.FriendRequestUpdated{
		RequestID: "req-1",
		Before:    request(models.StatusPending, t0),
		After:     request(models.StatusAccepted, t0),
	})

	require.NoError(t, err)
	users.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestHandleRequestUpdatedAcceptedUsesPlaceholderName(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	sender := new(mocks.SenderMock)
	notifier := NewNotifier(users, sender)

	users.On("GetProfile", mock.Anything, "U2").Return(models.UserProfile{}, repositories.ErrProfileNotFound).Once()
	users.On("GetProfile", mock.Anything, "U1").Return(models.UserProfile{ID: "U1", FCMToken: "tok1"}, nil).Once()
	sender.On("Send", mock.Anything, mock.MatchedBy(func(n push.Notification) bool {
		return len(n.BodyArgs) == 1 && n.BodyArgs[0] == "Someone"
	})).Return(nil).Once()

	err := notifier.HandleRequestUpdated(context.Background(), events.FriendRequestUpdated{
		RequestID: "req-1",
		Before:    request(models.StatusPending, t0),
		After:     request(models.StatusAccepted, t0),
	})

	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestHandleRequestUpdatedResendNotifiesRecipient(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	sender := new(mocks.SenderMock)
	notifier := NewNotifier(users, sender)

	users.On("GetProfile", mock.Anything, "U2").Return(models.UserProfile{ID: "U2", FCMToken: "tok2"}, nil).Once()
	sender.On("Send", mock.Anything, mock.MatchedBy(func(n push.Notification) bool {
		return n.Token == "tok2" &&
			n.Type == push.TypeFriendRequest &&
			len(n.BodyArgs) == 1 && n.BodyArgs[0] == "Alice"
	})).Return(nil).Once()

	err := notifier.HandleRequestUpdated(context.Background(), events.FriendRequestUpdated{
		RequestID: "req-1",
		Before:    request(models.StatusPending, t0),
		After:     request(models.StatusPending, t1),
	})

	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestHandleRequestUpdatedNoOpSendsNothing(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	sender := new(mocks.SenderMock)
	notifier := NewNotifier(users, sender)

	err := notifier.HandleRequestUpdated(context.Background(), events.FriendRequestUpdated{
		RequestID: "req-1",
		Before:    request(models.StatusPending, t0),
		After:     request(models.StatusRejected, t0),
	})

	require.NoError(t, err)
	users.AssertNotCalled(t, "GetProfile", mock.Anything, mock.Anything)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSendTestNotificationProfileMissing(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	notifier := NewNotifier(users, new(mocks.SenderMock))

	users.On("GetProfile", mock.Anything, "U1").Return(models.UserProfile{}, repositories.ErrProfileNotFound).Once()

	err := notifier.SendTestNotification(context.Background(), "U1")
	require.ErrorIs(t, err, ErrNoProfile)
}

func TestSendTestNotificationTokenMissing(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	notifier := NewNotifier(users, new(mocks.SenderMock))

	users.On("GetProfile", mock.Anything, "U1").Return(models.UserProfile{ID: "U1"}, nil).Once()

	err := notifier.SendTestNotification(context.Background(), "U1")
	require.ErrorIs(t, err, ErrNoDeviceToken)
}

func TestSendTestNotificationSendFailureSurfaces(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	sender := new(mocks.SenderMock)
	notifier := NewNotifier(users, sender)

	users.On("GetProfile", mock.Anything, "U1").Return(models.UserProfile{ID: "U1", FCMToken: "tok1"}, nil).Once()
	sender.On("Send", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	err := notifier.SendTestNotification(context.Background(), "U1")
	require.ErrorIs(t, err, ErrSendFailed)
}

func TestSendTestNotificationSuccess(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	sender := new(mocks.SenderMock)
	notifier := NewNotifier(users, sender)

	users.On("GetProfile", mock.Anything, "U1").Return(models.UserProfile{ID: "U1", FCMToken: "tok1"}, nil).Once()
	sender.On("Send", mock.Anything, mock.MatchedBy(func(n push.Notification) bool {
		return n.Token == "tok1" && n.Type == push.TypeTest && n.Data["type"] == push.TypeTest
	})).Return(nil).Once()

	require.NoError(t, notifier.SendTestNotification(context.Background(), "U1"))
	sender.AssertExpectations(t)
}
