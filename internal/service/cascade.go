package service

import (
	"context"
	"fmt"
	"log"

	"runrun-service/internal/avatars"
	"runrun-service/internal/observability"
	"runrun-service/internal/repositories"
	"runrun-service/internal/telemetry"
)

// Cascade removes everything an account owns when it is deleted. The database
// phase is one atomic transaction and fatal on failure; avatar cleanup runs
// after commit in its own failure domain and is logged only.
type Cascade struct {
	store   repositories.CascadeRepository
	avatars avatars.Store
	audit   *telemetry.AuditEmitter
}

// NewCascade constructs a Cascade.
func NewCascade(store repositories.CascadeRepository, avatarStore avatars.Store, audit *telemetry.AuditEmitter) *Cascade {
	return &Cascade{store: store, avatars: avatarStore, audit: audit}
}

// HandleUserDeleted runs the cascade for the deleted account.
func (s *Cascade) HandleUserDeleted(ctx context.Context, userID string) error {
	if err := s.store.DeleteUserData(ctx, userID); err != nil {
		observability.IncCascadeRun("error")
		return fmt.Errorf("delete user data for %s: %w", userID, err)
	}

	if err := s.avatars.DeleteAll(ctx, userID); err != nil {
		// An orphaned avatar object is recoverable; a half-applied cascade is not.
		log.Printf("avatar cleanup for %s failed (ignored): %v", userID, err)
	}

	observability.IncCascadeRun("ok")
	s.audit.Emit(ctx, "INFO", "account data deleted", "", &userID)
	log.Printf("account cascade completed user_id=%s", userID)
	return nil
}
