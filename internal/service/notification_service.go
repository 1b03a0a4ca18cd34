package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/email"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/observability"
)

// NotificationService turns ticket events into emails to the ticket owner.
// Delivery is best effort: failures are logged and counted, never retried.
type NotificationService struct {
	dispatcher events.Dispatcher
	renderer   *email.Renderer
	sender     email.Sender
	logger     *zap.Logger
	metrics    *observability.Metrics
	timeout    time.Duration
}

// NotificationDependencies bundles collaborators for the notification service.
type NotificationDependencies struct {
	Dispatcher events.Dispatcher
	Renderer   *email.Renderer
	Sender     email.Sender
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Timeout    time.Duration
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	n := &NotificationService{
		dispatcher: deps.Dispatcher,
		renderer:   deps.Renderer,
		sender:     deps.Sender,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		timeout:    deps.Timeout,
	}
	if n.logger == nil {
		n.logger = zap.NewNop()
	}
	if n.timeout <= 0 {
		n.timeout = 10 * time.Second
	}
	return n
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketReplied, n.handleTicketReplied)
	n.dispatcher.Subscribe(events.EventTicketResolved, n.handleTicketResolved)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	return n.deliver(ctx, event, n.renderer.Confirmation)
}

func (n *NotificationService) handleTicketReplied(ctx context.Context, event events.Event) error {
	return n.deliver(ctx, event, n.renderer.Reply)
}

func (n *NotificationService) handleTicketResolved(ctx context.Context, event events.Event) error {
	return n.deliver(ctx, event, n.renderer.Resolved)
}

// deliver always returns nil so a failed email never reaches the dispatcher as an error.
func (n *NotificationService) deliver(ctx context.Context, event events.Event, render func(email.Content) (email.Message, error)) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
	}
	if strings.TrimSpace(event.Payload.Email) == "" || n.sender == nil || n.renderer == nil {
		n.metrics.RecordNotification(string(event.Type), "skipped")
		n.logger.Debug("notification skipped", fields...)
		return nil
	}

	msg, err := render(email.Content{
		To:          event.Payload.Email,
		TicketID:    event.TicketID,
		Language:    event.Payload.Language,
		Topic:       event.Payload.Topic,
		Reply:       event.Payload.Reply,
		Attachments: event.Payload.Attachments,
	})
	if err != nil {
		n.metrics.RecordNotification(string(event.Type), "failed")
		n.logger.Error("notification render failed", append(fields, zap.Error(err))...)
		return nil
	}
	msg.Headers = map[string]string{"X-Ticket-ID": event.TicketID}

	sendCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	if err := n.sender.Send(sendCtx, msg); err != nil {
		n.metrics.RecordNotification(string(event.Type), "failed")
		n.logger.Warn("notification email failed", append(fields, zap.Error(fmt.Errorf("send: %w", err)))...)
		return nil
	}

	n.metrics.RecordNotification(string(event.Type), "sent")
	n.logger.Info("notification email sent", fields...)
	return nil
}
