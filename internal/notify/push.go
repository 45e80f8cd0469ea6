package notify

import (
	"context"
	"fmt"
	"strconv"

	"pamigay-backend/internal/domain"
	"pamigay-backend/internal/logger"
	"pamigay-backend/internal/repository"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// PushClient is the part of *messaging.Client the sink uses.
type PushClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// PushSink sends a Firebase Cloud Messaging notification to users that
// registered a device.
type PushSink struct {
	client   PushClient
	users    repository.UserRepository
	renderer *Renderer
}

func NewPushSink(ctx context.Context, credentialsFile string, store repository.Store, renderer *Renderer) (*PushSink, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase messaging: %w", err)
	}
	return NewPushSinkWithClient(client, store, renderer), nil
}

func NewPushSinkWithClient(client PushClient, store repository.Store, renderer *Renderer) *PushSink {
	return &PushSink{client: client, users: store.Users(), renderer: renderer}
}

func (s *PushSink) Name() string { return "push" }

func (s *PushSink) Deliver(ctx context.Context, ev domain.Event) error {
	user, err := s.users.GetByID(ctx, ev.RecipientID)
	if err != nil {
		return err
	}
	if user.DeviceToken == "" {
		return nil
	}

	content := s.renderer.Render(ctx, ev)
	msg := &messaging.Message{
		Token: user.DeviceToken,
		Notification: &messaging.Notification{
			Title: content.Title,
			Body:  content.Message,
		},
		Data: map[string]string{
			"type":        string(ev.Type),
			"donation_id": strconv.Itoa(int(ev.DonationID)),
			"related_id":  strconv.Itoa(int(ev.RelatedID)),
		},
	}
	logger.ExternalServiceCall("fcm", "Send", "userID", user.ID, "type", ev.Type)
	id, err := s.client.Send(ctx, msg)
	logger.ExternalServiceResult("fcm", "Send", err, "messageID", id)
	return err
}
