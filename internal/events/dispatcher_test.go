package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
)

func sampleEvent(eventType EventType) Event {
	ticket := domain.Ticket{
		TicketID:   "TKT-ABC-0001",
		Email:      "a@b.com",
		Language:   "es",
		Topic:      domain.TopicAccount,
		AdminReply: "Done",
	}
	event := NewTicketEvent(eventType, ticket, []string{"https://cdn/x.png"}, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	event.ID = "evt-1"
	return event
}

func TestNewTicketEventOmitsReplyOnCreate(t *testing.T) {
	created := NewTicketEvent(EventTicketCreated, domain.Ticket{TicketID: "T", AdminReply: "x"}, nil, time.Now())
	assert.Empty(t, created.Payload.Reply)
	assert.NotEmpty(t, created.ID)

	replied := sampleEvent(EventTicketReplied)
	assert.Equal(t, "Done", replied.Payload.Reply)
	assert.Equal(t, []string{"https://cdn/x.png"}, replied.Payload.Attachments)
	assert.Equal(t, "es", replied.Payload.Language)
}

func TestInMemoryPublishDoesNotBlockOnHandlers(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())
	release := make(chan struct{})
	done := make(chan Event, 1)
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		<-release
		done <- e
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), sampleEvent(EventTicketCreated)))
	close(release)

	select {
	case e := <-done:
		assert.Equal(t, "TKT-ABC-0001", e.TicketID)
	case <-time.After(2 * time.Second):
		t.Fatal("handler never ran")
	}
	d.Wait()
}

func TestInMemoryHandlerSurvivesCancelledRequestContext(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())
	var seen error
	d.Subscribe(EventTicketReplied, func(ctx context.Context, _ Event) error {
		seen = ctx.Err()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, d.Publish(ctx, sampleEvent(EventTicketReplied)))
	d.Wait()

	assert.NoError(t, seen)
}

func TestInMemoryFailingHandlerDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())
	calls := 0
	d.Subscribe(EventTicketResolved, func(context.Context, Event) error { return errors.New("boom") })
	d.Subscribe(EventTicketResolved, func(context.Context, Event) error { calls++; return nil })
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error { calls += 100; return nil })

	require.NoError(t, d.Publish(context.Background(), sampleEvent(EventTicketResolved)))
	d.Wait()

	assert.Equal(t, 1, calls)
}
