package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"runrun-service/internal/events"
	"runrun-service/internal/models"
	"runrun-service/internal/observability"
	"runrun-service/internal/push"
	"runrun-service/internal/repositories"
)

// Typed failures the test-notification endpoint maps onto HTTP statuses.
var (
	ErrNoProfile     = errors.New("profile not found")
	ErrNoDeviceToken = errors.New("no device token registered")
	ErrSendFailed    = errors.New("push send failed")
)

// placeholder used when the accepter's profile vanished before the push composed
const fallbackDisplayName = "Someone"

// Notifier reacts to friend-request lifecycle events and sends pushes. Missing
// profiles and tokens are expected absences; send failures in event paths are
// logged and swallowed because there is no caller to report to.
type Notifier struct {
	users  repositories.UserRepository
	sender push.Sender
}

// NewNotifier constructs a Notifier.
func NewNotifier(users repositories.UserRepository, sender push.Sender) *Notifier {
	return &Notifier{users: users, sender: sender}
}

// UpdateOutcome is the single action a friend-request update requires.
type UpdateOutcome int

const (
	OutcomeNone UpdateOutcome = iota
	OutcomeAccepted
	OutcomeResend
)

// ClassifyUpdate computes the outcome from the before/after snapshots. The
// accepted case wins when both could match, so at most one notification follows
// per update. The previous status is read, not assumed pending.
func ClassifyUpdate(before, after models.FriendRequest) UpdateOutcome {
	if before.Status != models.StatusAccepted && after.Status == models.StatusAccepted {
		return OutcomeAccepted
	}
	if after.Status == models.StatusPending && after.CreatedAt.After(before.CreatedAt) {
		return OutcomeResend
	}
	return OutcomeNone
}

// HandleRequestCreated notifies the recipient of a new friend request.
func (n *Notifier) HandleRequestCreated(ctx context.Context, evt events.FriendRequestCreated) error {
	return n.notifyRecipient(ctx, evt.RequestID, evt.Request)
}

// HandleRequestUpdated classifies the transition and dispatches once.
func (n *Notifier) HandleRequestUpdated(ctx context.Context, evt events.FriendRequestUpdated) error {
	switch ClassifyUpdate(evt.Before, evt.After) {
	case OutcomeAccepted:
		return n.notifySenderAccepted(ctx, evt.RequestID, evt.After)
	case OutcomeResend:
		return n.notifyRecipient(ctx, evt.RequestID, evt.After)
	default:
		return nil
	}
}

func (n *Notifier) notifyRecipient(ctx context.Context, requestID string, req models.FriendRequest) error {
	recipient, err := n.users.GetProfile(ctx, req.ToUserID)
	if errors.Is(err, repositories.ErrProfileNotFound) {
		log.Printf("friend request %s: recipient %s has no profile, skipping push", requestID, req.ToUserID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load recipient profile: %w", err)
	}
	if recipient.FCMToken == "" {
		log.Printf("friend request %s: recipient %s has no device token, skipping push", requestID, req.ToUserID)
		return nil
	}

	n.send(ctx, push.NewFriendRequestNotification(recipient.FCMToken, requestID, req.FromDisplayName))
	return nil
}

func (n *Notifier) notifySenderAccepted(ctx context.Context, requestID string, req models.FriendRequest) error {
	// Accepter name comes from the live profile; resolution never fails the event.
	accepterName := fallbackDisplayName
	accepter, err := n.users.GetProfile(ctx, req.ToUserID)
	if err != nil {
		if !errors.Is(err, repositories.ErrProfileNotFound) {
			log.Printf("friend request %s: accepter profile lookup failed, using placeholder: %v", requestID, err)
		}
	} else if accepter.DisplayName != "" {
		accepterName = accepter.DisplayName
	}

	sender, err := n.users.GetProfile(ctx, req.FromUserID)
	if errors.Is(err, repositories.ErrProfileNotFound) {
		log.Printf("friend request %s: sender %s has no profile, skipping push", requestID, req.FromUserID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load sender profile: %w", err)
	}
	if sender.FCMToken == "" {
		log.Printf("friend request %s: sender %s has no device token, skipping push", requestID, req.FromUserID)
		return nil
	}

	n.send(ctx, push.NewFriendAcceptedNotification(sender.FCMToken, requestID, accepterName))
	return nil
}

func (n *Notifier) send(ctx context.Context, notification push.Notification) {
	if err := n.sender.Send(ctx, notification); err != nil {
		observability.IncPushSendError(notification.Type)
		log.Printf("push send failed type=%s: %v", notification.Type, err)
		return
	}
	observability.IncPushSent(notification.Type)
}

// SendTestNotification sends a test push to the caller's own device. Unlike the
// event paths, every failure surfaces to the caller, who is waiting on it.
func (n *Notifier) SendTestNotification(ctx context.Context, userID string) error {
	profile, err := n.users.GetProfile(ctx, userID)
	if errors.Is(err, repositories.ErrProfileNotFound) {
		return ErrNoProfile
	}
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	if profile.FCMToken == "" {
		return ErrNoDeviceToken
	}

	if err := n.sender.Send(ctx, push.NewTestNotification(profile.FCMToken)); err != nil {
		observability.IncPushSendError(push.TypeTest)
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	observability.IncPushSent(push.TypeTest)
	return nil
}
