package rabbitmq

import (
	"context"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"runrun-service/internal/events"
	"runrun-service/internal/models"
)

type notifierMock struct {
	mock.Mock
}

func (m *notifierMock) HandleRequestCreated(ctx context.Context, evt events.FriendRequestCreated) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func (m *notifierMock) HandleRequestUpdated(ctx context.Context, evt events.FriendRequestUpdated) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

type cascadeMock struct {
	mock.Mock
}

func (m *cascadeMock) HandleUserDeleted(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newTestConsumer(notifier Notifier, cascade Cascade) *Consumer {
	return &Consumer{notifier: notifier, cascade: cascade}
}

func TestDispatchFriendRequestCreated(t *testing.T) {
	notifier := new(notifierMock)
	c := newTestConsumer(notifier, new(cascadeMock))

	notifier.On("HandleRequestCreated", mock.Anything, mock.MatchedBy(func(evt events.FriendRequestCreated) bool {
		return evt.RequestID == "req-1" && evt.Request.FromDisplayName == "Alice"
	})).Return(nil).Once()

	err := c.dispatch(context.Background(), amqp.Delivery{
		RoutingKey: events.RoutingKeyFriendRequestCreated,
		Body:       []byte(`{"request_id":"req-1","request":{"id":"req-1","from_display_name":"Alice","status":"pending"}}`),
	})

	require.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestDispatchFriendRequestUpdated(t *testing.T) {
	notifier := new(notifierMock)
	c := newTestConsumer(notifier, new(cascadeMock))

	notifier.On("HandleRequestUpdated", mock.Anything, mock.MatchedBy(func(evt events.FriendRequestUpdated) bool {
		return evt.Before.Status == models.StatusPending && evt.After.Status == models.StatusAccepted
	})).Return(nil).Once()

	err := c.dispatch(context.Background(), amqp.Delivery{
		RoutingKey: events.RoutingKeyFriendRequestUpdated,
		Body:       []byte(`{"request_id":"req-1","before":{"id":"req-1","status":"pending"},"after":{"id":"req-1","status":"accepted"}}`),
	})

	require.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestDispatchUserDeleted(t *testing.T) {
	cascade := new(cascadeMock)
	c := newTestConsumer(new(notifierMock), cascade)

	cascade.On("HandleUserDeleted", mock.Anything, "U1").Return(nil).Once()

	err := c.dispatch(context.Background(), amqp.Delivery{
		RoutingKey: events.RoutingKeyUserDeleted,
		Body:       []byte(`{"user_id":"U1"}`),
	})

	require.NoError(t, err)
	cascade.AssertExpectations(t)
}

func TestDispatchMalformedPayloadIsDropped(t *testing.T) {
	notifier := new(notifierMock)
	c := newTestConsumer(notifier, new(cascadeMock))

	err := c.dispatch(context.Background(), amqp.Delivery{
		RoutingKey: events.RoutingKeyFriendRequestCreated,
		Body:       []byte(`not json`),
	})

	// Malformed payloads are dropped, not retried.
	require.NoError(t, err)
	notifier.AssertNotCalled(t, "HandleRequestCreated", mock.Anything, mock.Anything)
}

func TestDispatchHandlerErrorPropagates(t *testing.T) {
	cascade := new(cascadeMock)
	c := newTestConsumer(new(notifierMock), cascade)

	cascade.On("HandleUserDeleted", mock.Anything, "U1").Return(assert.AnError).Once()

	err := c.dispatch(context.Background(), amqp.Delivery{
		RoutingKey: events.RoutingKeyUserDeleted,
		Body:       []byte(`{"user_id":"U1"}`),
	})

	require.Error(t, err)
}

func TestDispatchUnknownRoutingKey(t *testing.T) {
	notifier := new(notifierMock)
	cascade := new(cascadeMock)
	c := newTestConsumer(notifier, cascade)

	err := c.dispatch(context.Background(), amqp.Delivery{
		RoutingKey: "something.else",
		Body:       []byte(`{}`),
	})

	require.NoError(t, err)
	notifier.AssertNotCalled(t, "HandleRequestCreated", mock.Anything, mock.Anything)
	cascade.AssertNotCalled(t, "HandleUserDeleted", mock.Anything, mock.Anything)
}
