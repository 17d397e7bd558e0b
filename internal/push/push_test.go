package push

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFriendRequestNotification(t *testing.T) {
	n := NewFriendRequestNotification("tok1", "req-1", "Alice")

	assert.Equal(t, "tok1", n.Token)
	assert.Equal(t, TypeFriendRequest, n.Type)
	assert.Equal(t, map[string]string{"type": TypeFriendRequest, "request_id": "req-1"}, n.Data)
	assert.Equal(t, FriendRequestTitleKey, n.TitleKey)
	assert.Equal(t, FriendRequestBodyKey, n.BodyKey)
	assert.Equal(t, []string{"Alice"}, n.BodyArgs)
	assert.Equal(t, "default", n.Sound)
	assert.Equal(t, 1, n.Badge)
}

func TestNewFriendAcceptedNotification(t *testing.T) {
	n := NewFriendAcceptedNotification("tok1", "req-1", "Bob")

	assert.Equal(t, TypeFriendAccepted, n.Type)
	assert.Equal(t, map[string]string{"type": TypeFriendAccepted, "request_id": "req-1"}, n.Data)
	assert.Equal(t, FriendAcceptedTitleKey, n.TitleKey)
	assert.Equal(t, []string{"Bob"}, n.BodyArgs)
}

func TestNewTestNotification(t *testing.T) {
	n := NewTestNotification("tok1")

	assert.Equal(t, TypeTest, n.Type)
	assert.Equal(t, map[string]string{"type": TypeTest}, n.Data)
	assert.Equal(t, TestTitleKey, n.TitleKey)
	assert.Equal(t, TestBodyKey, n.BodyKey)
	assert.Empty(t, n.BodyArgs)
}

func TestSenderMode(t *testing.T) {
	assert.Equal(t, "noop", SenderMode(noopSender{}))
	assert.Equal(t, "fcm", SenderMode(&fcmSender{}))
}
