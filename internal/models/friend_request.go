package models

import "time"

// FriendRequestStatus is the lifecycle state of a friend request.
type FriendRequestStatus string

const (
	StatusPending  FriendRequestStatus = "pending"
	StatusAccepted FriendRequestStatus = "accepted"
	StatusRejected FriendRequestStatus = "rejected"
)

// FriendRequest represents a pending or resolved friend request.
// FromDisplayName is a snapshot of the sender's name at send time; pushes built
// from the request use it as stored, never the live profile.
type FriendRequest struct {
	ID              string              `db:"id" json:"id"`
	FromUserID      string              `db:"from_user_id" json:"from_user_id"`
	FromDisplayName string              `db:"from_display_name" json:"from_display_name"`
	ToUserID        string              `db:"to_user_id" json:"to_user_id"`
	Status          FriendRequestStatus `db:"status" json:"status"`
	CreatedAt       time.Time           `db:"created_at" json:"created_at"`
}
