package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// Authorizer checks admin credentials without continuing the chain.
type Authorizer interface {
	Authorize(c *fiber.Ctx) error
}

// TicketsHandler serves the single /tickets resource for submitters and admins.
type TicketsHandler struct {
	service *service.TicketService
	gate    Authorizer
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, gate Authorizer) *TicketsHandler {
	return &TicketsHandler{service: ticketService, gate: gate}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		Email:          req.Email,
		Topic:          req.Topic,
		Message:        req.Message,
		WalletAddress:  req.WalletAddress,
		Language:       req.Language,
		AcceptLanguage: c.Get(fiber.HeaderAcceptLanguage),
		Priority:       req.Priority,
		Attachments:    req.Attachments,
	})
	if err != nil {
		return apperrors.WithMessage(err, "Failed to create ticket")
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateTicketResponse{TicketID: ticket.TicketID})
}

// GetTickets GET /tickets. type=faq and type=status are public; without a type
// the request is an admin listing.
func (h *TicketsHandler) GetTickets(c *fiber.Ctx) error {
	switch strings.ToLower(strings.TrimSpace(c.Query("type"))) {
	case "faq":
		return h.faq(c)
	case "status":
		return h.status(c)
	case "":
		return h.list(c)
	default:
		return apperrors.NewValidationError("unsupported type", map[string]any{"type": c.Query("type")})
	}
}

func (h *TicketsHandler) faq(c *fiber.Ctx) error {
	lang, faqs := h.service.FAQ(c.Query("lang"), c.Get(fiber.HeaderAcceptLanguage))
	return c.JSON(dto.FAQResponse{FAQs: faqs, Language: lang})
}

func (h *TicketsHandler) status(c *fiber.Ctx) error {
	view, err := h.service.CheckStatus(c.UserContext(), c.Query("id"), c.Query("email"))
	if err != nil {
		return err
	}
	return c.JSON(view)
}

func (h *TicketsHandler) list(c *fiber.Ctx) error {
	if err := h.gate.Authorize(c); err != nil {
		return err
	}
	tickets, err := h.service.ListTickets(c.UserContext())
	if err != nil {
		return apperrors.WithMessage(err, "Failed to fetch tickets")
	}
	return c.JSON(dto.TicketListResponse{Tickets: tickets})
}

// UpdateTicket PATCH /tickets (admin).
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.UpdateTicket(c.UserContext(), req.TicketID, req.ToInput())
	if err != nil {
		return apperrors.WithMessage(err, "Update failed")
	}
	return c.JSON(dto.TicketResponse{Ticket: ticket})
}

// DeleteTicket DELETE /tickets?id= (admin).
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	if err := h.service.DeleteTicket(c.UserContext(), c.Query("id")); err != nil {
		return apperrors.WithMessage(err, "Delete failed")
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}
