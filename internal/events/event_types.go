package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/support-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventTicketReplied  EventType = "ticket_replied"
	EventTicketResolved EventType = "ticket_resolved"
)

// TicketSnapshot carries what a notification needs so consumers never re-read the store.
type TicketSnapshot struct {
	Email       string             `json:"email"`
	Language    string             `json:"language"`
	Topic       domain.TicketTopic `json:"topic"`
	Reply       string             `json:"reply,omitempty"`
	Attachments []string           `json:"attachments,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	TicketID  string         `json:"ticket_id"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   TicketSnapshot `json:"payload"`
}

// NewTicketEvent builds an event from the ticket state after the write.
func NewTicketEvent(eventType EventType, ticket domain.Ticket, attachments []string, now time.Time) Event {
	payload := TicketSnapshot{
		Email:    ticket.Email,
		Language: ticket.Language,
		Topic:    ticket.Topic,
	}
	if eventType != EventTicketCreated {
		payload.Reply = ticket.AdminReply
	}
	if len(attachments) > 0 {
		payload.Attachments = append([]string(nil), attachments...)
	}
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticket.TicketID,
		Timestamp: now.UTC(),
		Payload:   payload,
	}
}
