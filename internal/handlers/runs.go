package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"runrun-service/internal/models"
	"runrun-service/internal/repositories"
	"runrun-service/internal/telemetry"
)

// RunHandler manages workout sync endpoints.
type RunHandler struct {
	runs  repositories.RunRecordRepository
	audit *telemetry.AuditEmitter
}

// NewRunHandler builds a RunHandler.
func NewRunHandler(runs repositories.RunRecordRepository, audit *telemetry.AuditEmitter) *RunHandler {
	return &RunHandler{runs: runs, audit: audit}
}

// SyncRuns upserts a batch of workouts read from the client's health store.
// Re-synced records overwrite by id, so the client can replay safely.
func (h *RunHandler) SyncRuns(c *gin.Context) {
	userID := c.GetString("userID")

	var req struct {
		Runs []struct {
			ID              string    `json:"id"`
			StartedAt       time.Time `json:"started_at" binding:"required"`
			DurationSeconds float64   `json:"duration_seconds"`
			DistanceMeters  float64   `json:"distance_meters"`
			Calories        float64   `json:"calories"`
		} `json:"runs" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records := make([]models.RunRecord, 0, len(req.Runs))
	for _, run := range req.Runs {
		id := run.ID
		if id == "" {
			id = uuid.NewString()
		}
		records = append(records, models.RunRecord{
			ID:              id,
			UserID:          userID,
			StartedAt:       run.StartedAt,
			DurationSeconds: run.DurationSeconds,
			DistanceMeters:  run.DistanceMeters,
			Calories:        run.Calories,
		})
	}

	count, err := h.runs.UpsertBatch(c.Request.Context(), records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sync runs"})
		return
	}

	emitAudit(c, h.audit, "INFO", "runs synced")
	c.JSON(http.StatusOK, gin.H{"synced": count})
}

// ListRuns returns the caller's synced workouts, newest first.
func (h *RunHandler) ListRuns(c *gin.Context) {
	userID := c.GetString("userID")

	records, err := h.runs.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": records})
}
