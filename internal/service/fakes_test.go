package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/email"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
)

type memoryRepo struct {
	mu          sync.Mutex
	tickets     map[string]domain.Ticket
	createErrs  []error
	updateErr   error
	createCalls int
	updateCalls int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{tickets: map[string]domain.Ticket{}}
}

func (r *memoryRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, ok := r.tickets[ticket.TicketID]; ok {
		return repository.ErrDuplicateTicketID
	}
	ticket.Version = 1
	r.tickets[ticket.TicketID] = ticket.Clone()
	return nil
}

func (r *memoryRepo) List(context.Context) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Ticket, 0, len(r.tickets))
	for _, t := range r.tickets {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepo) GetByTicketID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok {
		return nil, repository.ErrTicketNotFound
	}
	c := t.Clone()
	return &c, nil
}

func (r *memoryRepo) GetByTicketIDAndEmail(ctx context.Context, id, email string) (*domain.Ticket, error) {
	t, err := r.GetByTicketID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(t.Email, email) {
		return nil, repository.ErrTicketNotFound
	}
	return t, nil
}

func (r *memoryRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.tickets[ticket.TicketID]
	if !ok {
		return repository.ErrTicketNotFound
	}
	if stored.Version != ticket.Version {
		return repository.ErrVersionConflict
	}
	ticket.Version++
	r.tickets[ticket.TicketID] = ticket.Clone()
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[id]; !ok {
		return repository.ErrTicketNotFound
	}
	delete(r.tickets, id)
	return nil
}

type unavailableRepo struct{}

func (unavailableRepo) Create(context.Context, *domain.Ticket) error { return repository.ErrStorageUnavailable }
func (unavailableRepo) List(context.Context) ([]domain.Ticket, error) {
	return nil, repository.ErrStorageUnavailable
}
func (unavailableRepo) GetByTicketID(context.Context, string) (*domain.Ticket, error) {
	return nil, repository.ErrStorageUnavailable
}
func (unavailableRepo) GetByTicketIDAndEmail(context.Context, string, string) (*domain.Ticket, error) {
	return nil, repository.ErrStorageUnavailable
}
func (unavailableRepo) Update(context.Context, *domain.Ticket) error { return repository.ErrStorageUnavailable }
func (unavailableRepo) Delete(context.Context, string) error { return repository.ErrStorageUnavailable }

type sequenceIDs struct {
	n int
}

func (s *sequenceIDs) Next() (string, error) {
	s.n++
	return fmt.Sprintf("TKT-TEST%d-%04d", s.n, s.n), nil
}

type constantIDs struct{}

func (constantIDs) Next() (string, error) { return "TKT-SAME-0000", nil }

type recordingDispatcher struct {
	mu        sync.Mutex
	published []events.Event
	err       error
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.published = append(d.published, event)
	return d.err
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.published))
	for _, e := range d.published {
		out = append(out, e.Type)
	}
	return out
}

type recordingSender struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
}

func (s *recordingSender) Send(ctx context.Context, msg email.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("send without deadline")
	}
	s.sent = append(s.sent, msg)
	return s.err
}

func (s *recordingSender) messages() []email.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]email.Message(nil), s.sent...)
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
