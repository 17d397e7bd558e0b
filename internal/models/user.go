package models

import "time"

// UserProfile is the account document created on first sign-in. FCMToken is the
// device push token; empty means notifications are not enabled for this account.
type UserProfile struct {
	ID          string    `db:"id" json:"id"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Email       string    `db:"email" json:"email"`
	FCMToken    string    `db:"fcm_token" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// FriendshipEdge is one side of a symmetric friendship. If A lists B, B should
// list A; symmetry is best-effort at creation and enforced during deletion.
type FriendshipEdge struct {
	UserID    string    `db:"user_id" json:"user_id"`
	FriendID  string    `db:"friend_id" json:"friend_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
