package push

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// NewSender builds an FCM sender, or a noop sender when Firebase credentials are
// not configured or the client cannot be constructed.
func NewSender(ctx context.Context, credentialsFile string) Sender {
	if credentialsFile == "" {
		log.Printf("push disabled, using noop: no firebase credentials")
		return noopSender{reason: "no firebase credentials"}
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		log.Printf("push disabled, using noop: %v", err)
		return noopSender{reason: err.Error()}
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Printf("push disabled, using noop: %v", err)
		return noopSender{reason: err.Error()}
	}

	log.Printf("fcm messaging client ready")
	return &fcmSender{client: client}
}

type fcmSender struct {
	client *messaging.Client
}

func (s *fcmSender) Send(ctx context.Context, n Notification) error {
	badge := n.Badge
	msg := &messaging.Message{
		Token: n.Token,
		Data:  n.Data,
		Android: &messaging.AndroidConfig{
			Notification: &messaging.AndroidNotification{
				TitleLocKey: n.TitleKey,
				BodyLocKey:  n.BodyKey,
				BodyLocArgs: n.BodyArgs,
				Sound:       n.Sound,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						TitleLocKey: n.TitleKey,
						LocKey:      n.BodyKey,
						LocArgs:     n.BodyArgs,
					},
					Sound: n.Sound,
					Badge: &badge,
				},
			},
		},
	}

	if _, err := s.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("fcm send: %w", err)
	}
	return nil
}
