package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"pamigay-backend/internal/domain"
	"pamigay-backend/internal/logger"
	"pamigay-backend/internal/repository"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// MailClient is the part of *sendgrid.Client the sink uses.
type MailClient interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// EmailSink mails the recipient for the events that need action outside the app.
type EmailSink struct {
	client    MailClient
	users     repository.UserRepository
	renderer  *Renderer
	fromEmail string
	fromName  string
}

var emailBody = template.Must(template.New("email").Parse(
	`<html><body><h2>{{.Title}}</h2><p>{{.Message}}</p></body></html>`))

var emailedEvents = map[domain.EventType]bool{
	domain.EventPickupAccepted:  true,
	domain.EventPickupCompleted: true,
}

func NewEmailSink(apiKey, fromEmail, fromName string, store repository.Store, renderer *Renderer) *EmailSink {
	return NewEmailSinkWithClient(sendgrid.NewSendClient(apiKey), fromEmail, fromName, store, renderer)
}

func NewEmailSinkWithClient(client MailClient, fromEmail, fromName string, store repository.Store, renderer *Renderer) *EmailSink {
	return &EmailSink{client: client, users: store.Users(), renderer: renderer, fromEmail: fromEmail, fromName: fromName}
}

func (s *EmailSink) Name() string { return "email" }

func (s *EmailSink) Deliver(ctx context.Context, ev domain.Event) error {
	if !emailedEvents[ev.Type] {
		return nil
	}
	user, err := s.users.GetByID(ctx, ev.RecipientID)
	if err != nil {
		return err
	}
	if user.Email == "" {
		return nil
	}

	content := s.renderer.Render(ctx, ev)
	var html bytes.Buffer
	if err := emailBody.Execute(&html, content); err != nil {
		return fmt.Errorf("render email: %w", err)
	}
	message := mail.NewSingleEmail(mail.NewEmail(s.fromName, s.fromEmail), content.Title, mail.NewEmail(user.Name, user.Email), content.Message, html.String())

	logger.ExternalServiceCall("sendgrid", "Send", "to", user.Email, "type", ev.Type)
	response, err := s.client.Send(message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "Send", err, "to", user.Email)
	return err
}
