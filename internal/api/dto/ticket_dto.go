package dto

import (
	"strings"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/lifecycle"
)

// CreateTicketRequest is the public submission payload.
type CreateTicketRequest struct {
	Email         string   `json:"email"`
	Topic         string   `json:"topic"`
	Message       string   `json:"message"`
	WalletAddress *string  `json:"walletAddress"`
	Language      string   `json:"language"`
	Priority      string   `json:"priority"`
	Attachments   []string `json:"attachments"`
}

// CreateTicketResponse carries the id the submitter needs for status lookups.
type CreateTicketResponse struct {
	TicketID string `json:"ticketId"`
}

// UpdateTicketRequest is the admin PATCH payload. Absent fields are left untouched.
type UpdateTicketRequest struct {
	TicketID       string   `json:"ticketId"`
	Status         *string  `json:"status"`
	Priority       *string  `json:"priority"`
	InternalNotes  *string  `json:"internal_notes"`
	AdminReply     *string  `json:"admin_reply"`
	Action         *string  `json:"action"`
	AttachmentURLs []string `json:"attachmentUrls"`
}

// ToInput converts the payload into an engine input. Enum values are lowercased
// here and validated by the engine.
func (r UpdateTicketRequest) ToInput() lifecycle.UpdateInput {
	in := lifecycle.UpdateInput{
		InternalNotes:  r.InternalNotes,
		AdminReply:     r.AdminReply,
		AttachmentURLs: r.AttachmentURLs,
	}
	if r.Status != nil {
		s := domain.TicketStatus(normalize(*r.Status))
		in.Status = &s
	}
	if r.Priority != nil {
		p := domain.TicketPriority(normalize(*r.Priority))
		in.Priority = &p
	}
	if r.Action != nil {
		a := domain.UpdateAction(normalize(*r.Action))
		in.Action = &a
	}
	return in
}

// FAQResponse lists localized FAQ entries.
type FAQResponse struct {
	FAQs     []domain.FAQEntry `json:"faqs"`
	Language string            `json:"language"`
}

// TicketListResponse wraps the admin listing.
type TicketListResponse struct {
	Tickets []domain.Ticket `json:"tickets"`
}

// TicketResponse wraps a single ticket.
type TicketResponse struct {
	Ticket *domain.Ticket `json:"ticket"`
}

// SuccessResponse acknowledges an operation with no payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
