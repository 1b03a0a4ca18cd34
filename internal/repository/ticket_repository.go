package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

var (
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrStorageUnavailable = errors.New("ticket storage unavailable")
	ErrVersionConflict    = errors.New("ticket was modified concurrently")
	ErrDuplicateTicketID  = errors.New("ticket id already exists")
)

const uniqueViolation = "23505"

// DB is the subset of pgxpool.Pool used by the repository.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	List(ctx context.Context) ([]domain.Ticket, error)
	GetByTicketID(ctx context.Context, ticketID string) (*domain.Ticket, error)
	GetByTicketIDAndEmail(ctx context.Context, ticketID, email string) (*domain.Ticket, error)
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, ticketID string) error
}

type ticketRepository struct {
	db DB
}

// NewTicketRepository instantiates repository. A nil db makes every call fail with ErrStorageUnavailable.
func NewTicketRepository(db DB) TicketRepository {
	if pool, ok := db.(*pgxpool.Pool); ok && pool == nil {
		db = nil
	}
	return &ticketRepository{db: db}
}

const ticketColumns = `ticket_id, email, topic, message, status, priority, wallet_address, language,
               internal_notes, admin_reply, attachments, history, version, created_at, updated_at, resolved_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	if r.db == nil {
		return ErrStorageUnavailable
	}
	attachments, history, err := encodeCollections(ticket)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO support_tickets (ticket_id, email, topic, message, status, priority, wallet_address, language,
            internal_notes, admin_reply, attachments, history, version, created_at, updated_at, resolved_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,1,$13,$14,$15)`
	_, err = r.db.Exec(ctx, query,
		ticket.TicketID,
		ticket.Email,
		ticket.Topic,
		ticket.Message,
		ticket.Status,
		ticket.Priority,
		ticket.WalletAddress,
		ticket.Language,
		ticket.InternalNotes,
		ticket.AdminReply,
		attachments,
		history,
		ticket.CreatedAt,
		ticket.UpdatedAt,
		ticket.ResolvedAt,
	)
	if err != nil {
		return translate(err)
	}
	ticket.Version = 1
	return nil
}

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	if r.db == nil {
		return nil, ErrStorageUnavailable
	}
	rows, err := r.db.Query(ctx, `SELECT `+ticketColumns+` FROM support_tickets ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	tickets := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}
	return tickets, nil
}

func (r *ticketRepository) GetByTicketID(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	if r.db == nil {
		return nil, ErrStorageUnavailable
	}
	row := r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM support_tickets WHERE ticket_id=$1`, ticketID)
	return scanTicket(row)
}

// GetByTicketIDAndEmail matches the owner email case-insensitively.
func (r *ticketRepository) GetByTicketIDAndEmail(ctx context.Context, ticketID, email string) (*domain.Ticket, error) {
	if r.db == nil {
		return nil, ErrStorageUnavailable
	}
	row := r.db.QueryRow(ctx,
		`SELECT `+ticketColumns+` FROM support_tickets WHERE ticket_id=$1 AND LOWER(email)=LOWER($2)`,
		ticketID, strings.TrimSpace(email))
	return scanTicket(row)
}

// Update writes the mutable fields only if the stored version still matches ticket.Version.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	if r.db == nil {
		return ErrStorageUnavailable
	}
	_, history, err := encodeCollections(ticket)
	if err != nil {
		return err
	}
	const query = `
        UPDATE support_tickets SET status=$2, priority=$3, internal_notes=$4, admin_reply=$5, history=$6,
            updated_at=$7, resolved_at=$8, version=version+1
        WHERE ticket_id=$1 AND version=$9
        RETURNING version`
	var version int64
	err = r.db.QueryRow(ctx, query,
		ticket.TicketID,
		ticket.Status,
		ticket.Priority,
		ticket.InternalNotes,
		ticket.AdminReply,
		history,
		ticket.UpdatedAt,
		ticket.ResolvedAt,
		ticket.Version,
	).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists int
		probe := r.db.QueryRow(ctx, `SELECT 1 FROM support_tickets WHERE ticket_id=$1`, ticket.TicketID).Scan(&exists)
		if errors.Is(probe, pgx.ErrNoRows) {
			return ErrTicketNotFound
		}
		if probe != nil {
			return translate(probe)
		}
		return ErrVersionConflict
	}
	if err != nil {
		return translate(err)
	}
	ticket.Version = version
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, ticketID string) error {
	if r.db == nil {
		return ErrStorageUnavailable
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM support_tickets WHERE ticket_id=$1`, ticketID)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrTicketNotFound
	}
	return nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket      domain.Ticket
		attachments []byte
		history     []byte
	)
	if err := row.Scan(
		&ticket.TicketID,
		&ticket.Email,
		&ticket.Topic,
		&ticket.Message,
		&ticket.Status,
		&ticket.Priority,
		&ticket.WalletAddress,
		&ticket.Language,
		&ticket.InternalNotes,
		&ticket.AdminReply,
		&attachments,
		&history,
		&ticket.Version,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ResolvedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, translate(err)
	}
	if err := decodeJSON(attachments, &ticket.Attachments); err != nil {
		return nil, fmt.Errorf("decode attachments for %s: %w", ticket.TicketID, err)
	}
	if err := decodeJSON(history, &ticket.History); err != nil {
		return nil, fmt.Errorf("decode history for %s: %w", ticket.TicketID, err)
	}
	if ticket.Attachments == nil {
		ticket.Attachments = []string{}
	}
	if ticket.History == nil {
		ticket.History = []domain.HistoryEntry{}
	}
	ticket.CreatedAt = ticket.CreatedAt.UTC()
	ticket.UpdatedAt = ticket.UpdatedAt.UTC()
	if ticket.ResolvedAt != nil {
		resolved := ticket.ResolvedAt.UTC()
		ticket.ResolvedAt = &resolved
	}
	return &ticket, nil
}

func encodeCollections(ticket *domain.Ticket) ([]byte, []byte, error) {
	attachments := ticket.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	history := ticket.History
	if history == nil {
		history = []domain.HistoryEntry{}
	}
	a, err := json.Marshal(attachments)
	if err != nil {
		return nil, nil, fmt.Errorf("encode attachments: %w", err)
	}
	h, err := json.Marshal(history)
	if err != nil {
		return nil, nil, fmt.Errorf("encode history: %w", err)
	}
	return a, h, nil
}

func decodeJSON(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// translate maps driver errors onto repository sentinels. Anything else passes through wrapped.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicateTicketID, pgErr.ConstraintName)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return err
}
