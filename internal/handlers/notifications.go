package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"runrun-service/internal/service"
	"runrun-service/internal/telemetry"
)

type testNotifier interface {
	SendTestNotification(ctx context.Context, userID string) error
}

// NotificationHandler exposes the on-demand test notification endpoint.
type NotificationHandler struct {
	notifier testNotifier
	audit    *telemetry.AuditEmitter
}

// NewNotificationHandler builds a NotificationHandler.
func NewNotificationHandler(notifier testNotifier, audit *telemetry.AuditEmitter) *NotificationHandler {
	return &NotificationHandler{notifier: notifier, audit: audit}
}

// SendTest sends a test push to the caller's own registered device. Failures are
// surfaced synchronously and distinguishably: a missing profile is a data gap,
// a missing token is a normal state, a send failure is internal.
func (h *NotificationHandler) SendTest(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	err := h.notifier.SendTestNotification(c.Request.Context(), userID)
	switch {
	case err == nil:
		emitAudit(c, h.audit, "INFO", "test notification sent")
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	case errors.Is(err, service.ErrNoProfile):
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
	case errors.Is(err, service.ErrNoDeviceToken):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "no device token registered"})
	default:
		emitAudit(c, h.audit, "ERROR", "test notification failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send notification"})
	}
}
