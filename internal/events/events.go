package events

import "runrun-service/internal/models"

// Routing keys on the lifecycle topic exchange. One event per document write or
// account deletion; consumers must not rely on ordering across events.
const (
	RoutingKeyFriendRequestCreated = "friend_requests.created"
	RoutingKeyFriendRequestUpdated = "friend_requests.updated"
	RoutingKeyUserDeleted          = "users.deleted"
)

// FriendRequestCreated carries the full snapshot of a newly created request.
type FriendRequestCreated struct {
	RequestID string               `json:"request_id"`
	Request   models.FriendRequest `json:"request"`
}

// FriendRequestUpdated carries the before/after snapshots of an updated request,
// so consumers re-derive the transition from the pair instead of trusting an
// external sequence.
type FriendRequestUpdated struct {
	RequestID string               `json:"request_id"`
	Before    models.FriendRequest `json:"before"`
	After     models.FriendRequest `json:"after"`
}

// UserDeleted signals that an account was deleted and its data must be removed.
type UserDeleted struct {
	UserID string `json:"user_id"`
}
