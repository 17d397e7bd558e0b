package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"runrun-service/internal/models"
)

var ErrProfileNotFound = errors.New("profile not found")

// UserRepository abstracts user profile and friendship persistence.
type UserRepository interface {
	GetProfile(ctx context.Context, userID string) (models.UserProfile, error)
	UpsertProfile(ctx context.Context, profile models.UserProfile) (models.UserProfile, error)
	SetDeviceToken(ctx context.Context, userID string, token string) error
	ListFriendIDs(ctx context.Context, userID string) ([]string, error)
	ListFriends(ctx context.Context, userID string) ([]models.UserProfile, error)
	AddFriendEdges(ctx context.Context, userID string, friendID string) error
	RemoveFriendEdges(ctx context.Context, userID string, friendID string) error
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetProfile fetches a profile by account id.
func (r *UserRepo) GetProfile(ctx context.Context, userID string) (models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.GetContext(ctx, &profile, `SELECT id, display_name, email, fcm_token, created_at FROM user_profiles WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserProfile{}, ErrProfileNotFound
	}
	return profile, err
}

// UpsertProfile creates the profile on first sign-in or updates the mutable fields.
// The device token is managed separately and survives the upsert.
func (r *UserRepo) UpsertProfile(ctx context.Context, profile models.UserProfile) (models.UserProfile, error) {
	var stored models.UserProfile
	err := r.db.QueryRowxContext(ctx, `INSERT INTO user_profiles (id, display_name, email) VALUES ($1, $2, $3)
        ON CONFLICT (id) DO UPDATE SET display_name = EXCLUDED.display_name, email = EXCLUDED.email
        RETURNING id, display_name, email, fcm_token, created_at`, profile.ID, profile.DisplayName, profile.Email).
		StructScan(&stored)
	return stored, err
}

// SetDeviceToken stores the push token for the account. An empty token disables pushes.
func (r *UserRepo) SetDeviceToken(ctx context.Context, userID string, token string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE user_profiles SET fcm_token=$2 WHERE id=$1`, userID, token)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// ListFriendIDs returns the ids in the user's friends list.
func (r *UserRepo) ListFriendIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.SelectContext(ctx, &ids, `SELECT friend_id FROM friend_edges WHERE user_id=$1 ORDER BY created_at ASC`, userID)
	return ids, err
}

// ListFriends returns the profiles of the user's friends.
func (r *UserRepo) ListFriends(ctx context.Context, userID string) ([]models.UserProfile, error) {
	query := `SELECT p.id, p.display_name, p.email, p.fcm_token, p.created_at FROM friend_edges e
        JOIN user_profiles p ON p.id = e.friend_id
        WHERE e.user_id=$1
        ORDER BY e.created_at ASC`
	var friends []models.UserProfile
	err := r.db.SelectContext(ctx, &friends, query, userID)
	return friends, err
}

// AddFriendEdges inserts both sides of the friendship. The two inserts are
// intentionally not transactional; a one-sided edge is tolerated until deletion.
func (r *UserRepo) AddFriendEdges(ctx context.Context, userID string, friendID string) error {
	if _, err := r.db.ExecContext(ctx, `INSERT INTO friend_edges (user_id, friend_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, friendID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO friend_edges (user_id, friend_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, friendID, userID)
	return err
}

// RemoveFriendEdges deletes both sides of the friendship.
func (r *UserRepo) RemoveFriendEdges(ctx context.Context, userID string, friendID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM friend_edges WHERE (user_id=$1 AND friend_id=$2) OR (user_id=$2 AND friend_id=$1)`, userID, friendID)
	return err
}
