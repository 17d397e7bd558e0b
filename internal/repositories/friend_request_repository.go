package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"runrun-service/internal/models"
)

var ErrRequestNotFound = errors.New("friend request not found")

// FriendRequestRepository abstracts friend request persistence.
type FriendRequestRepository interface {
	Get(ctx context.Context, requestID string) (models.FriendRequest, error)
	GetByUsers(ctx context.Context, fromUserID string, toUserID string) (models.FriendRequest, error)
	Upsert(ctx context.Context, req models.FriendRequest) (models.FriendRequest, error)
	SetStatus(ctx context.Context, requestID string, status models.FriendRequestStatus) (models.FriendRequest, error)
	ListIncoming(ctx context.Context, toUserID string) ([]models.FriendRequest, error)
}

// FriendRequestRepo is a sqlx implementation of FriendRequestRepository.
type FriendRequestRepo struct {
	db *sqlx.DB
}

// NewFriendRequestRepo constructs a FriendRequestRepo.
func NewFriendRequestRepo(db *sqlx.DB) *FriendRequestRepo {
	return &FriendRequestRepo{db: db}
}

const friendRequestColumns = `id, from_user_id, from_display_name, to_user_id, status, created_at`

// Get fetches a request by id.
func (r *FriendRequestRepo) Get(ctx context.Context, requestID string) (models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.GetContext(ctx, &req, `SELECT `+friendRequestColumns+` FROM friend_requests WHERE id=$1`, requestID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FriendRequest{}, ErrRequestNotFound
	}
	return req, err
}

// GetByUsers fetches the request between a sender/recipient pair.
func (r *FriendRequestRepo) GetByUsers(ctx context.Context, fromUserID string, toUserID string) (models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.GetContext(ctx, &req, `SELECT `+friendRequestColumns+` FROM friend_requests WHERE from_user_id=$1 AND to_user_id=$2`, fromUserID, toUserID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FriendRequest{}, ErrRequestNotFound
	}
	return req, err
}

// Upsert creates the request, or re-sends an existing one between the same pair:
// a re-send resets the status to pending and bumps created_at while keeping the id.
func (r *FriendRequestRepo) Upsert(ctx context.Context, req models.FriendRequest) (models.FriendRequest, error) {
	var stored models.FriendRequest
	err := r.db.QueryRowxContext(ctx, `INSERT INTO friend_requests (id, from_user_id, from_display_name, to_user_id, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (from_user_id, to_user_id) DO UPDATE SET
            from_display_name = EXCLUDED.from_display_name,
            status = EXCLUDED.status,
            created_at = EXCLUDED.created_at
        RETURNING `+friendRequestColumns,
		req.ID, req.FromUserID, req.FromDisplayName, req.ToUserID, req.Status, req.CreatedAt).
		StructScan(&stored)
	return stored, err
}

// SetStatus updates the request status and returns the updated row.
func (r *FriendRequestRepo) SetStatus(ctx context.Context, requestID string, status models.FriendRequestStatus) (models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.QueryRowxContext(ctx, `UPDATE friend_requests SET status=$2 WHERE id=$1 RETURNING `+friendRequestColumns, requestID, status).
		StructScan(&req)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FriendRequest{}, ErrRequestNotFound
	}
	return req, err
}

// ListIncoming returns requests addressed to the user, newest first.
func (r *FriendRequestRepo) ListIncoming(ctx context.Context, toUserID string) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	err := r.db.SelectContext(ctx, &reqs, `SELECT `+friendRequestColumns+` FROM friend_requests WHERE to_user_id=$1 ORDER BY created_at DESC`, toUserID)
	return reqs, err
}
