package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

var (
	created = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	later   = created.Add(2 * time.Hour)
)

func ptr[T any](v T) *T { return &v }

func seedTicket(status domain.TicketStatus) domain.Ticket {
	return domain.Ticket{
		TicketID: "TKT-AAAA-0001",
		Email:    "a@b.com",
		Topic:    domain.TopicGeneral,
		Message:  "Hi",
		Status:   status,
		Priority: domain.TicketPriorityMedium,
		Language: "en",
		History: []domain.HistoryEntry{{
			Type:      domain.HistoryUserMessage,
			Content:   "Hi",
			Author:    "a@b.com",
			Timestamp: created,
		}},
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestApplyNoOp(t *testing.T) {
	engine := NewEngine(ResolvedAtFirst, "")
	ticket := seedTicket(domain.TicketStatusNew)

	res := engine.Apply(ticket, UpdateInput{AttachmentURLs: []string{"https://x/y.png"}}, later)

	assert.False(t, res.Changed)
	assert.Equal(t, NotifyNone, res.Notification)
	assert.Equal(t, ticket, res.Ticket)
}

func TestApplySameValuesIsNoOp(t *testing.T) {
	engine := NewEngine(ResolvedAtFirst, "")
	ticket := seedTicket(domain.TicketStatusNew)

	res := engine.Apply(ticket, UpdateInput{
		Status:   ptr(domain.TicketStatusNew),
		Priority: ptr(domain.TicketPriorityMedium),
	}, later)

	assert.False(t, res.Changed)
	assert.Len(t, res.Ticket.History, 1)
	assert.Equal(t, created, res.Ticket.UpdatedAt)
}

func TestApplyReplySetsInProgressFromAnyStatus(t *testing.T) {
	engine := NewEngine(ResolvedAtFirst, "Support Team")
	statuses := []domain.TicketStatus{
		domain.TicketStatusNew,
		domain.TicketStatusInProgress,
		domain.TicketStatusResolved,
		domain.TicketStatusClosed,
		domain.TicketStatusReopened,
	}
	for _, status := range statuses {
		t.Run(string(status), func(t *testing.T) {
			res := engine.Apply(seedTicket(status), UpdateInput{
				AdminReply:     ptr("We are looking into it"),
				Action:         ptr(domain.ActionReply),
				AttachmentURLs: []string{"https://cdn/a.png", " "},
			}, later)

			require.True(t, res.Changed)
			assert.Equal(t, domain.TicketStatusInProgress, res.Ticket.Status)
			assert.Equal(t, NotifyReplied, res.Notification)
			require.Len(t, res.Ticket.History, 2)
			entry := res.Ticket.History[1]
			assert.Equal(t, domain.HistoryAdminReply, entry.Type)
			assert.Equal(t, "We are looking into it", entry.Content)
			assert.Equal(t, "Support Team", entry.Author)
			assert.Equal(t, []string{"https://cdn/a.png"}, entry.Attachments)
			assert.Equal(t, later, entry.Timestamp)
			assert.Equal(t, "We are looking into it", res.Ticket.AdminReply)
			assert.Equal(t, later, res.Ticket.UpdatedAt)
		})
	}
}

func TestApplyReplyWithoutText(t *testing.T) {
	engine := NewEngine(ResolvedAtFirst, "Support Team")
	ticket := seedTicket(domain.TicketStatusResolved)
	ticket.AdminReply = "earlier"

	res := engine.Apply(ticket, UpdateInput{Action: ptr(domain.ActionReply)}, later)

	require.True(t, res.Changed)
	assert.Equal(t, domain.TicketStatusInProgress, res.Ticket.Status)
	assert.Equal(t, NotifyReplied, res.Notification)
	require.Len(t, res.Ticket.History, 2)
	entry := res.Ticket.History[1]
	assert.Equal(t, domain.HistoryAdminReply, entry.Type)
	assert.Empty(t, entry.Content)
	assert.Equal(t, "Support Team", entry.Author)
	assert.Empty(t, res.Ticket.AdminReply)
}

func TestApplyResolveWithoutReply(t *testing.T) {
	engine := NewEngine(ResolvedAtFirst, "")
	res := engine.Apply(seedTicket(domain.TicketStatusInProgress), UpdateInput{Action: ptr(domain.ActionResolve)}, later)

	require.True(t, res.Changed)
	assert.Equal(t, domain.TicketStatusResolved, res.Ticket.Status)
	require.NotNil(t, res.Ticket.ResolvedAt)
	assert.Equal(t, later, *res.Ticket.ResolvedAt)
	assert.Equal(t, NotifyResolved, res.Notification)
	require.Len(t, res.Ticket.History, 2)
	last := res.Ticket.History[1]
	assert.Equal(t, domain.HistoryStatusChange, last.Type)
	assert.Equal(t, domain.SystemAuthor, last.Author)
}

func TestApplyResolveWithReplyOrdersReplyFirst(t *testing.T) {
	engine := NewEngine(ResolvedAtFirst, "Support Team")
	res := engine.Apply(seedTicket(domain.TicketStatusNew), UpdateInput{
		AdminReply: ptr("Fixed on our side"),
		Action:     ptr(domain.ActionResolve),
	}, later)

	require.Len(t, res.Ticket.History, 3)
	assert.Equal(t, domain.HistoryAdminReply, res.Ticket.History[1].Type)
	assert.Equal(t, "Fixed on our side", res.Ticket.History[1].Content)
	assert.Equal(t, domain.HistoryStatusChange, res.Ticket.History[2].Type)
	assert.Equal(t, "Fixed on our side", res.Ticket.AdminReply)
}

func TestResolvedAtPolicies(t *testing.T) {
	first := later.Add(-time.Hour)
	ticket := seedTicket(domain.TicketStatusReopened)
	ticket.ResolvedAt = &first

	keep := NewEngine(ResolvedAtFirst, "").Apply(ticket, UpdateInput{Action: ptr(domain.ActionResolve)}, later)
	require.NotNil(t, keep.Ticket.ResolvedAt)
	assert.Equal(t, first, *keep.Ticket.ResolvedAt)

	overwrite := NewEngine(ResolvedAtLatest, "").Apply(ticket, UpdateInput{Action: ptr(domain.ActionResolve)}, later)
	require.NotNil(t, overwrite.Ticket.ResolvedAt)
	assert.Equal(t, later, *overwrite.Ticket.ResolvedAt)

	assert.Equal(t, first, *ticket.ResolvedAt, "input ticket must not be mutated")
}

func TestApplyReopenKeepsResolvedAt(t *testing.T) {
	resolved := created.Add(time.Hour)
	ticket := seedTicket(domain.TicketStatusResolved)
	ticket.ResolvedAt = &resolved

	res := NewEngine(ResolvedAtFirst, "").Apply(ticket, UpdateInput{Status: ptr(domain.TicketStatusReopened)}, later)

	assert.Equal(t, domain.TicketStatusReopened, res.Ticket.Status)
	require.NotNil(t, res.Ticket.ResolvedAt)
	assert.Equal(t, resolved, *res.Ticket.ResolvedAt)
}

func TestApplyDirectEditAppendsPerField(t *testing.T) {
	res := NewEngine(ResolvedAtFirst, "").Apply(seedTicket(domain.TicketStatusNew), UpdateInput{
		Status:   ptr(domain.TicketStatusClosed),
		Priority: ptr(domain.TicketPriorityHigh),
	}, later)

	require.True(t, res.Changed)
	assert.Equal(t, NotifyNone, res.Notification)
	require.Len(t, res.Ticket.History, 3)
	assert.Equal(t, "Status changed from new to closed", res.Ticket.History[1].Content)
	assert.Equal(t, "Priority changed from medium to high", res.Ticket.History[2].Content)
	for _, entry := range res.Appended {
		assert.Equal(t, domain.HistoryStatusChange, entry.Type)
		assert.Equal(t, domain.SystemAuthor, entry.Author)
	}
	assert.Nil(t, res.Ticket.ResolvedAt)
}

func TestApplyDirectEditToResolvedSetsResolvedAt(t *testing.T) {
	res := NewEngine(ResolvedAtFirst, "").Apply(seedTicket(domain.TicketStatusNew), UpdateInput{
		Status: ptr(domain.TicketStatusResolved),
	}, later)

	require.NotNil(t, res.Ticket.ResolvedAt)
	assert.Equal(t, NotifyNone, res.Notification)
}

func TestApplyNotesOnlyUpdatesWithoutHistory(t *testing.T) {
	res := NewEngine(ResolvedAtFirst, "").Apply(seedTicket(domain.TicketStatusNew), UpdateInput{
		InternalNotes: ptr("VIP customer"),
	}, later)

	require.True(t, res.Changed)
	assert.Equal(t, "VIP customer", res.Ticket.InternalNotes)
	assert.Len(t, res.Ticket.History, 1)
}

func TestApplyNeverMutatesExistingEntries(t *testing.T) {
	ticket := seedTicket(domain.TicketStatusNew)
	before := ticket.Clone()

	res := NewEngine(ResolvedAtFirst, "").Apply(ticket, UpdateInput{
		AdminReply: ptr("first"),
		Action:     ptr(domain.ActionResolve),
	}, later)

	require.GreaterOrEqual(t, len(res.Ticket.History), len(before.History))
	assert.Equal(t, before.History, res.Ticket.History[:len(before.History)])
	assert.Equal(t, before, ticket)
}

func TestApplyLeavesLanguageUntouched(t *testing.T) {
	ticket := seedTicket(domain.TicketStatusNew)
	ticket.Language = "ja"

	res := NewEngine(ResolvedAtFirst, "").Apply(ticket, UpdateInput{
		AdminReply: ptr("ok"),
		Action:     ptr(domain.ActionReply),
	}, later)

	assert.Equal(t, "ja", res.Ticket.Language)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name  string
		input UpdateInput
		ok    bool
	}{
		{name: "empty", input: UpdateInput{}, ok: true},
		{name: "bad status", input: UpdateInput{Status: ptr(domain.TicketStatus("archived"))}},
		{name: "bad priority", input: UpdateInput{Priority: ptr(domain.TicketPriority("urgent"))}},
		{name: "bad action", input: UpdateInput{Action: ptr(domain.UpdateAction("close"))}},
		{name: "reply without text", input: UpdateInput{Action: ptr(domain.ActionReply)}, ok: true},
		{name: "resolve without text", input: UpdateInput{Action: ptr(domain.ActionResolve)}, ok: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.input.Validate()
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
		})
	}
}
