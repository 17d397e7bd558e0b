package push

import (
	"context"
	"log"
)

// Machine-readable notification type tags carried in the data payload.
const (
	TypeFriendRequest  = "friend_request"
	TypeFriendAccepted = "friend_accepted"
	TypeTest           = "test"
)

// Localization keys resolved on the receiving device; the backend never renders
// notification text itself.
const (
	FriendRequestTitleKey  = "FRIEND_REQUEST_TITLE"
	FriendRequestBodyKey   = "FRIEND_REQUEST_BODY"
	FriendAcceptedTitleKey = "FRIEND_ACCEPTED_TITLE"
	FriendAcceptedBodyKey  = "FRIEND_ACCEPTED_BODY"
	TestTitleKey           = "TEST_NOTIFICATION_TITLE"
	TestBodyKey            = "TEST_NOTIFICATION_BODY"
)

// Notification is a composed push payload addressed to a single device token.
// The alert is a title/body key pair plus positional arguments so each device
// renders it in its own language.
type Notification struct {
	Token    string
	Type     string
	Data     map[string]string
	TitleKey string
	BodyKey  string
	BodyArgs []string
	Sound    string
	Badge    int
}

// NewFriendRequestNotification targets the request recipient. The display name
// argument is the snapshot stored on the request, not the sender's live profile.
func NewFriendRequestNotification(token, requestID, fromDisplayName string) Notification {
	return Notification{
		Token:    token,
		Type:     TypeFriendRequest,
		Data:     map[string]string{"type": TypeFriendRequest, "request_id": requestID},
		TitleKey: FriendRequestTitleKey,
		BodyKey:  FriendRequestBodyKey,
		BodyArgs: []string{fromDisplayName},
		Sound:    "default",
		Badge:    1,
	}
}

// NewFriendAcceptedNotification targets the original sender after their request
// was accepted.
func NewFriendAcceptedNotification(token, requestID, accepterName string) Notification {
	return Notification{
		Token:    token,
		Type:     TypeFriendAccepted,
		Data:     map[string]string{"type": TypeFriendAccepted, "request_id": requestID},
		TitleKey: FriendAcceptedTitleKey,
		BodyKey:  FriendAcceptedBodyKey,
		BodyArgs: []string{accepterName},
		Sound:    "default",
		Badge:    1,
	}
}

// NewTestNotification targets the caller's own device for operational checks.
func NewTestNotification(token string) Notification {
	return Notification{
		Token:    token,
		Type:     TypeTest,
		Data:     map[string]string{"type": TypeTest},
		TitleKey: TestTitleKey,
		BodyKey:  TestBodyKey,
		Sound:    "default",
		Badge:    1,
	}
}

// Sender delivers a notification to the push transport. Retry and backoff beyond
// the single send call belong to the transport.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

type noopSender struct {
	reason string
}

func (noopSender) Send(ctx context.Context, n Notification) error {
	log.Printf("push noop send type=%s token_set=%t body_key=%s", n.Type, n.Token != "", n.BodyKey)
	return nil
}

// SenderMode reports the sender mode for logging.
func SenderMode(s Sender) string {
	switch s.(type) {
	case *fcmSender:
		return "fcm"
	case noopSender:
		return "noop"
	default:
		return "unknown"
	}
}
