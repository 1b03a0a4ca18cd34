package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/i18n"
	"github.com/spec-kit/support-desk/internal/lifecycle"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/ticketid"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

const maxCreateAttempts = 3

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	ids        ticketid.Generator
	dispatcher events.Dispatcher
	engine     lifecycle.Engine
	languages  *i18n.Resolver
	now        func() time.Time
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	IDs        ticketid.Generator
	Dispatcher events.Dispatcher
	Engine     lifecycle.Engine
	Languages  *i18n.Resolver
	Clock      func() time.Time
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// TicketCreateInput describes the public submission payload.
type TicketCreateInput struct {
	Email          string
	Topic          string
	Message        string
	WalletAddress  *string
	Language       string
	AcceptLanguage string
	Priority       string
	Attachments    []string
}

// StatusView is what the public status lookup reveals.
type StatusView struct {
	Status    domain.TicketStatus `json:"status"`
	UpdatedAt time.Time           `json:"updatedAt"`
	LastReply *string             `json:"lastReply"`
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	svc := &TicketService{
		tickets:    deps.TicketRepo,
		ids:        deps.IDs,
		dispatcher: deps.Dispatcher,
		engine:     deps.Engine,
		languages:  deps.Languages,
		now:        deps.Clock,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
	}
	if svc.ids == nil {
		svc.ids = ticketid.New()
	}
	if svc.languages == nil {
		svc.languages = i18n.NewResolver(i18n.DefaultLanguage)
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.engine.AdminName == "" {
		svc.engine = lifecycle.NewEngine(svc.engine.Policy, "")
	}
	return svc
}

// CreateTicket validates a submission, stores it with its first history entry and
// announces it. A duplicate id is regenerated a bounded number of times.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	email := strings.TrimSpace(input.Email)
	topic := domain.TicketTopic(strings.ToLower(strings.TrimSpace(input.Topic)))
	message := input.Message

	details := map[string]any{}
	if email == "" {
		details["email"] = "required"
	}
	if topic == "" {
		details["topic"] = "required"
	} else if !topic.Valid() {
		details["topic"] = "must be one of general, transactions, account, security, other"
	}
	if strings.TrimSpace(message) == "" {
		details["message"] = "required"
	}
	priority := domain.TicketPriorityMedium
	if p := strings.TrimSpace(input.Priority); p != "" {
		priority = domain.TicketPriority(strings.ToLower(p))
		if !priority.Valid() {
			details["priority"] = "must be one of low, medium, high"
		}
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("missing or invalid fields", details)
	}

	var wallet *string
	if input.WalletAddress != nil {
		if w := strings.TrimSpace(*input.WalletAddress); w != "" {
			wallet = &w
		}
	}
	attachments := cleanURLs(input.Attachments)
	now := s.timestamp()

	ticket := &domain.Ticket{
		Email:         email,
		Topic:         topic,
		Message:       message,
		Status:        domain.TicketStatusNew,
		Priority:      priority,
		WalletAddress: wallet,
		Language:      s.languages.Resolve(input.Language, input.AcceptLanguage),
		Attachments:   attachments,
		History: []domain.HistoryEntry{{
			Type:        domain.HistoryUserMessage,
			Content:     message,
			Attachments: attachments,
			Author:      email,
			Timestamp:   now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	var err error
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		if ticket.TicketID, err = s.ids.Next(); err != nil {
			return nil, apperrors.NewInternalError(fmt.Errorf("generate ticket id: %w", err))
		}
		err = s.tickets.Create(ctx, ticket)
		if !errors.Is(err, repository.ErrDuplicateTicketID) {
			break
		}
		s.logger.Warn("ticket id collision; regenerating",
			zap.String("ticket_id", ticket.TicketID),
			zap.Int("attempt", attempt))
	}
	if errors.Is(err, repository.ErrDuplicateTicketID) {
		return nil, apperrors.NewConflict("could not allocate a unique ticket id", nil)
	}
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logger.Info("ticket created",
		zap.String("ticket_id", ticket.TicketID),
		zap.String("topic", string(ticket.Topic)),
		zap.String("language", ticket.Language))
	s.publish(ctx, events.NewTicketEvent(events.EventTicketCreated, *ticket, nil, now))
	return ticket, nil
}

// ListTickets returns every ticket, newest first.
func (s *TicketService) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return tickets, nil
}

// CheckStatus answers the public lookup. The id and email together act as the credential,
// so a mismatch is indistinguishable from a missing ticket.
func (s *TicketService) CheckStatus(ctx context.Context, ticketID, email string) (*StatusView, error) {
	ticketID = strings.TrimSpace(ticketID)
	email = strings.TrimSpace(email)
	details := map[string]any{}
	if ticketID == "" {
		details["id"] = "required"
	}
	if email == "" {
		details["email"] = "required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("ticket id and email are required", details)
	}

	ticket, err := s.tickets.GetByTicketIDAndEmail(ctx, ticketID, email)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if !strings.EqualFold(ticket.Email, email) {
		return nil, apperrors.NewNotFound("ticket", nil)
	}

	view := &StatusView{Status: ticket.Status, UpdatedAt: ticket.UpdatedAt}
	if reply := ticket.LastReply(); reply != "" {
		view.LastReply = &reply
	}
	return view, nil
}

// UpdateTicket applies an admin update. A request that changes nothing returns the
// stored ticket without writing or notifying.
func (s *TicketService) UpdateTicket(ctx context.Context, ticketID string, input lifecycle.UpdateInput) (*domain.Ticket, error) {
	ticketID = strings.TrimSpace(ticketID)
	if ticketID == "" {
		return nil, apperrors.NewValidationError("ticketId is required", map[string]any{"ticketId": "required"})
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	current, err := s.tickets.GetByTicketID(ctx, ticketID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	now := s.timestamp()
	res := s.engine.Apply(*current, input, now)
	if !res.Changed {
		return current, nil
	}

	updated := res.Ticket
	if err := s.tickets.Update(ctx, &updated); err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logger.Info("ticket updated",
		zap.String("ticket_id", updated.TicketID),
		zap.String("status", string(updated.Status)),
		zap.String("priority", string(updated.Priority)),
		zap.Int("history_appended", len(res.Appended)))

	switch res.Notification {
	case lifecycle.NotifyReplied:
		s.publish(ctx, events.NewTicketEvent(events.EventTicketReplied, updated, replyAttachments(res, input), now))
	case lifecycle.NotifyResolved:
		s.publish(ctx, events.NewTicketEvent(events.EventTicketResolved, updated, replyAttachments(res, input), now))
	}
	return &updated, nil
}

// DeleteTicket removes a ticket permanently. Deleting a missing ticket succeeds.
func (s *TicketService) DeleteTicket(ctx context.Context, ticketID string) error {
	ticketID = strings.TrimSpace(ticketID)
	if ticketID == "" {
		return apperrors.NewValidationError("ticket id is required", map[string]any{"id": "required"})
	}
	err := s.tickets.Delete(ctx, ticketID)
	if errors.Is(err, repository.ErrTicketNotFound) {
		s.logger.Info("ticket already deleted", zap.String("ticket_id", ticketID))
		return nil
	}
	if err != nil {
		return mapRepositoryError(err)
	}
	s.logger.Info("ticket deleted", zap.String("ticket_id", ticketID))
	return nil
}

// FAQ returns the localized FAQ list for the requested or negotiated language.
func (s *TicketService) FAQ(lang, acceptLanguage string) (string, []domain.FAQEntry) {
	resolved := s.languages.Normalize(s.languages.Resolve(lang, acceptLanguage))
	return resolved, append([]domain.FAQEntry(nil), i18n.Lookup(resolved).FAQ...)
}

// publish hands an event to the dispatcher. Failure is logged and never surfaces to the caller.
func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.metrics.RecordEvent(string(event.Type), "failed")
		s.logger.Warn("event publish failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
		return
	}
	s.metrics.RecordEvent(string(event.Type), "published")
}

// timestamp is truncated to the precision Postgres keeps.
func (s *TicketService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func replyAttachments(res lifecycle.Result, input lifecycle.UpdateInput) []string {
	for _, entry := range res.Appended {
		if entry.Type == domain.HistoryAdminReply {
			return entry.Attachments
		}
	}
	return cleanURLs(input.AttachmentURLs)
}

func cleanURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, url := range urls {
		if url = strings.TrimSpace(url); url != "" {
			out = append(out, url)
		}
	}
	return out
}

func mapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrTicketNotFound):
		return apperrors.NewNotFound("ticket", nil)
	case errors.Is(err, repository.ErrStorageUnavailable):
		return apperrors.NewStorageUnavailable(err)
	case errors.Is(err, repository.ErrVersionConflict):
		return apperrors.NewConflict("ticket was modified by another request; reload and retry", nil)
	default:
		return apperrors.MapError(err)
	}
}
