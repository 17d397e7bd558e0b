package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"runrun-service/internal/events"
	"runrun-service/internal/models"
	"runrun-service/internal/rabbitmq"
	"runrun-service/internal/repositories"
	"runrun-service/internal/telemetry"
)

// FriendHandler manages friend-request and friendship endpoints. Every write
// publishes the document snapshots as a lifecycle event after it commits;
// publish failures are logged by the publisher and never fail the request.
type FriendHandler struct {
	users     repositories.UserRepository
	requests  repositories.FriendRequestRepository
	publisher rabbitmq.Publisher
	audit     *telemetry.AuditEmitter
}

// NewFriendHandler builds a FriendHandler.
func NewFriendHandler(users repositories.UserRepository, requests repositories.FriendRequestRepository, publisher rabbitmq.Publisher, audit *telemetry.AuditEmitter) *FriendHandler {
	return &FriendHandler{users: users, requests: requests, publisher: publisher, audit: audit}
}

// SendRequest creates a friend request, or re-sends an existing one.
func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID := c.GetString("userID")

	var req struct {
		ToUserID string `json:"to_user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ToUserID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot send a friend request to yourself"})
		return
	}

	profile, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrProfileNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "profile not found"})
		return
	}

	before, err := h.requests.GetByUsers(c.Request.Context(), userID, req.ToUserID)
	isResend := err == nil
	if err != nil && !errors.Is(err, repositories.ErrRequestNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send friend request"})
		return
	}

	stored, err := h.requests.Upsert(c.Request.Context(), models.FriendRequest{
		ID:              uuid.NewString(),
		FromUserID:      userID,
		FromDisplayName: profile.DisplayName,
		ToUserID:        req.ToUserID,
		Status:          models.StatusPending,
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send friend request"})
		return
	}

	headers := map[string]string{"x-request-id": requestIDFromContext(c)}
	if isResend {
		_ = h.publisher.Publish(c.Request.Context(), events.RoutingKeyFriendRequestUpdated,
			events.FriendRequestUpdated{RequestID: stored.ID, Before: before, After: stored}, headers)
	} else {
		_ = h.publisher.Publish(c.Request.Context(), events.RoutingKeyFriendRequestCreated,
			events.FriendRequestCreated{RequestID: stored.ID, Request: stored}, headers)
	}

	emitAudit(c, h.audit, "INFO", "friend request sent")
	c.JSON(http.StatusCreated, gin.H{"request_id": stored.ID})
}

// ListIncoming returns requests addressed to the caller.
func (h *FriendHandler) ListIncoming(c *gin.Context) {
	userID := c.GetString("userID")

	requests, err := h.requests.ListIncoming(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load friend requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// Respond accepts or rejects a request addressed to the caller.
func (h *FriendHandler) Respond(c *gin.Context) {
	userID := c.GetString("userID")
	requestID := c.Param("request_id")

	var req struct {
		Action string `json:"action" binding:"required,oneof=accept reject"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	before, err := h.requests.Get(c.Request.Context(), requestID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrRequestNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "friend request not found"})
		return
	}
	if before.ToUserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the recipient"})
		return
	}

	status := models.StatusRejected
	if req.Action == "accept" {
		status = models.StatusAccepted
	}

	after, err := h.requests.SetStatus(c.Request.Context(), requestID, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update friend request"})
		return
	}

	if status == models.StatusAccepted {
		if err := h.users.AddFriendEdges(c.Request.Context(), before.FromUserID, before.ToUserID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store friendship"})
			return
		}
	}

	headers := map[string]string{"x-request-id": requestIDFromContext(c)}
	_ = h.publisher.Publish(c.Request.Context(), events.RoutingKeyFriendRequestUpdated,
		events.FriendRequestUpdated{RequestID: requestID, Before: before, After: after}, headers)

	emitAudit(c, h.audit, "INFO", "friend request "+req.Action+"ed")
	c.JSON(http.StatusOK, gin.H{"status": string(after.Status)})
}

// ListFriends returns the caller's friends.
func (h *FriendHandler) ListFriends(c *gin.Context) {
	userID := c.GetString("userID")

	friends, err := h.users.ListFriends(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load friends"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

// Unfriend removes both sides of a friendship.
func (h *FriendHandler) Unfriend(c *gin.Context) {
	userID := c.GetString("userID")
	friendID := c.Param("friend_id")

	if err := h.users.RemoveFriendEdges(c.Request.Context(), userID, friendID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not remove friend"})
		return
	}

	c.Status(http.StatusNoContent)
}
