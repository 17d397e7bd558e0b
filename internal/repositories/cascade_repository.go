package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CascadeRepository removes all data owned by or referencing an account as one
// atomic unit. Re-running against an already-clean account is a successful no-op.
type CascadeRepository interface {
	DeleteUserData(ctx context.Context, userID string) error
}

// CascadeRepo is a sqlx implementation of CascadeRepository.
type CascadeRepo struct {
	db *sqlx.DB
}

// NewCascadeRepo constructs a CascadeRepo.
func NewCascadeRepo(db *sqlx.DB) *CascadeRepo {
	return &CascadeRepo{db: db}
}

// DeleteUserData stages every deletion inside a single transaction: friend
// requests in both directions, run records, friendship edges on both sides, and
// the profile row itself. Either all of it commits or none of it does. Friend
// edges are enumerated only when the profile still exists; the remaining steps
// run regardless.
func (r *CascadeRepo) DeleteUserData(ctx context.Context, userID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cascade: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM friend_requests WHERE from_user_id=$1`, userID); err != nil {
		return fmt.Errorf("delete sent friend requests: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM friend_requests WHERE to_user_id=$1`, userID); err != nil {
		return fmt.Errorf("delete received friend requests: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM run_records WHERE user_id=$1`, userID); err != nil {
		return fmt.Errorf("delete run records: %w", err)
	}

	var profileExists bool
	if err := tx.GetContext(ctx, &profileExists, `SELECT EXISTS(SELECT 1 FROM user_profiles WHERE id=$1)`, userID); err != nil {
		return fmt.Errorf("check profile: %w", err)
	}
	if profileExists {
		var friendIDs []string
		if err := tx.SelectContext(ctx, &friendIDs, `SELECT friend_id FROM friend_edges WHERE user_id=$1`, userID); err != nil {
			return fmt.Errorf("list friend edges: %w", err)
		}
		for _, friendID := range friendIDs {
			// reciprocal edge first, then the account's own edge
			if _, err := tx.ExecContext(ctx, `DELETE FROM friend_edges WHERE user_id=$1 AND friend_id=$2`, friendID, userID); err != nil {
				return fmt.Errorf("delete reciprocal edge %s: %w", friendID, err)
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM friend_edges WHERE user_id=$1 AND friend_id=$2`, userID, friendID); err != nil {
				return fmt.Errorf("delete own edge %s: %w", friendID, err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_profiles WHERE id=$1`, userID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cascade: %w", err)
	}
	return nil
}
