package notify

import (
	"context"

	"pamigay-backend/internal/domain"
	"pamigay-backend/internal/repository"
)

// InboxSink stores events as in-app notifications.
type InboxSink struct {
	notes    repository.NotificationRepository
	renderer *Renderer
}

func NewInboxSink(store repository.Store, renderer *Renderer) *InboxSink {
	return &InboxSink{notes: store.Notifications(), renderer: renderer}
}

func (s *InboxSink) Name() string { return "inbox" }

func (s *InboxSink) Deliver(ctx context.Context, ev domain.Event) error {
	content := s.renderer.Render(ctx, ev)
	related := ev.RelatedID
	return s.notes.Create(ctx, &domain.Notification{
		UserID:    ev.RecipientID,
		Type:      ev.Type,
		Title:     content.Title,
		Message:   content.Message,
		RelatedID: &related,
		CreatedOn: ev.OccurredAt,
	})
}
