package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"runrun-service/internal/events"
	"runrun-service/internal/models"
	"runrun-service/internal/rabbitmq"
	"runrun-service/internal/repositories"
	"runrun-service/internal/telemetry"
)

// UserHandler manages profile and account endpoints.
type UserHandler struct {
	users     repositories.UserRepository
	publisher rabbitmq.Publisher
	audit     *telemetry.AuditEmitter
}

// NewUserHandler builds a UserHandler.
func NewUserHandler(users repositories.UserRepository, publisher rabbitmq.Publisher, audit *telemetry.AuditEmitter) *UserHandler {
	return &UserHandler{users: users, publisher: publisher, audit: audit}
}

// GetProfile returns the caller's own profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := c.GetString("userID")

	profile, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrProfileNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "profile not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":                 profile,
		"device_token_registered": profile.FCMToken != "",
	})
}

// UpsertProfile creates or updates the caller's profile.
func (h *UserHandler) UpsertProfile(c *gin.Context) {
	userID := c.GetString("userID")

	var req struct {
		DisplayName string `json:"display_name" binding:"required"`
		Email       string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.users.UpsertProfile(c.Request.Context(), models.UserProfile{
		ID:          userID,
		DisplayName: req.DisplayName,
		Email:       req.Email,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save profile"})
		return
	}

	emitAudit(c, h.audit, "INFO", "profile saved")
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// RegisterDeviceToken stores the caller's push token.
func (h *UserHandler) RegisterDeviceToken(c *gin.Context) {
	userID := c.GetString("userID")

	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.users.SetDeviceToken(c.Request.Context(), userID, req.Token); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrProfileNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "could not store device token"})
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteAccount publishes the account-deletion event. The cascade itself runs
// asynchronously; a publish failure means the deletion was never scheduled.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID := c.GetString("userID")

	evt := events.UserDeleted{UserID: userID}
	headers := map[string]string{"x-request-id": requestIDFromContext(c)}
	if err := h.publisher.Publish(c.Request.Context(), events.RoutingKeyUserDeleted, evt, headers); err != nil {
		emitAudit(c, h.audit, "ERROR", "failed to schedule account deletion")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to schedule deletion"})
		return
	}

	emitAudit(c, h.audit, "INFO", "account deletion scheduled")
	c.JSON(http.StatusAccepted, gin.H{"status": "deletion scheduled"})
}
