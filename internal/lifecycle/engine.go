// Package lifecycle computes the field mutations and history appends produced by one admin update.
//
// Apply is pure: it never touches storage and never mutates its input ticket.
// Any status is reachable from any other through a direct edit; only the reply
// and resolve actions impose a target status.
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// ResolvedAtPolicy decides what a resolve does to an already-set resolution time.
type ResolvedAtPolicy string

const (
	// ResolvedAtFirst records only the first resolution.
	ResolvedAtFirst ResolvedAtPolicy = "first"
	// ResolvedAtLatest overwrites the timestamp on every resolve.
	ResolvedAtLatest ResolvedAtPolicy = "latest"
)

// Notification names the email a change should trigger.
type Notification string

const (
	NotifyNone     Notification = ""
	NotifyReplied  Notification = "replied"
	NotifyResolved Notification = "resolved"
)

// UpdateInput mirrors the admin PATCH payload. Nil fields are absent.
type UpdateInput struct {
	Status         *domain.TicketStatus
	Priority       *domain.TicketPriority
	InternalNotes  *string
	AdminReply     *string
	Action         *domain.UpdateAction
	AttachmentURLs []string
}

// Empty reports whether the input carries nothing to apply.
func (in UpdateInput) Empty() bool {
	return in.Status == nil && in.Priority == nil && in.InternalNotes == nil && in.AdminReply == nil && in.Action == nil
}

// Validate rejects unknown enum values before any store access.
func (in UpdateInput) Validate() error {
	details := map[string]any{}
	if in.Status != nil && !in.Status.Valid() {
		details["status"] = string(*in.Status)
	}
	if in.Priority != nil && !in.Priority.Valid() {
		details["priority"] = string(*in.Priority)
	}
	if in.Action != nil && !in.Action.Valid() {
		details["action"] = string(*in.Action)
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid update", details)
	}
	return nil
}

// Engine applies updates using fixed policy settings.
type Engine struct {
	Policy    ResolvedAtPolicy
	AdminName string
}

// NewEngine builds an engine; empty values fall back to ResolvedAtFirst and "Support Team".
func NewEngine(policy ResolvedAtPolicy, adminName string) Engine {
	if policy != ResolvedAtLatest {
		policy = ResolvedAtFirst
	}
	if strings.TrimSpace(adminName) == "" {
		adminName = "Support Team"
	}
	return Engine{Policy: policy, AdminName: adminName}
}

// Result is the outcome of Apply.
type Result struct {
	Ticket       domain.Ticket
	Changed      bool
	Notification Notification
	Appended     []domain.HistoryEntry
}

// Apply computes the updated ticket. The returned ticket shares no memory with the input.
func (e Engine) Apply(current domain.Ticket, in UpdateInput, now time.Time) Result {
	if in.Empty() {
		return Result{Ticket: current}
	}

	t := current.Clone()
	var res Result
	appendEntry := func(entry domain.HistoryEntry) {
		entry.Timestamp = now
		t.History = append(t.History, entry)
		res.Appended = append(res.Appended, entry)
	}

	if in.InternalNotes != nil {
		t.InternalNotes = *in.InternalNotes
	}

	switch {
	case in.Action != nil && *in.Action == domain.ActionReply:
		reply := deref(in.AdminReply)
		t.AdminReply = reply
		t.Status = domain.TicketStatusInProgress
		appendEntry(domain.HistoryEntry{
			Type:        domain.HistoryAdminReply,
			Content:     reply,
			Attachments: copyURLs(in.AttachmentURLs),
			Author:      e.AdminName,
		})
		res.Notification = NotifyReplied

	case in.Action != nil && *in.Action == domain.ActionResolve:
		if reply := deref(in.AdminReply); strings.TrimSpace(reply) != "" {
			t.AdminReply = reply
			appendEntry(domain.HistoryEntry{
				Type:        domain.HistoryAdminReply,
				Content:     reply,
				Attachments: copyURLs(in.AttachmentURLs),
				Author:      e.AdminName,
			})
		}
		previous := t.Status
		t.Status = domain.TicketStatusResolved
		if t.ResolvedAt == nil || e.Policy == ResolvedAtLatest {
			resolved := now
			t.ResolvedAt = &resolved
		}
		appendEntry(domain.HistoryEntry{
			Type:    domain.HistoryStatusChange,
			Content: fmt.Sprintf("Ticket resolved (status changed from %s to %s)", previous, domain.TicketStatusResolved),
			Author:  domain.SystemAuthor,
		})
		res.Notification = NotifyResolved

	default:
		if in.AdminReply != nil {
			t.AdminReply = *in.AdminReply
		}
		if in.Status != nil && *in.Status != t.Status {
			appendEntry(fieldChange("Status", string(t.Status), string(*in.Status)))
			t.Status = *in.Status
			if t.Status == domain.TicketStatusResolved && (t.ResolvedAt == nil || e.Policy == ResolvedAtLatest) {
				resolved := now
				t.ResolvedAt = &resolved
			}
		}
	}

	// Priority applies in every branch.
	if in.Priority != nil && *in.Priority != t.Priority {
		appendEntry(fieldChange("Priority", string(t.Priority), string(*in.Priority)))
		t.Priority = *in.Priority
	}

	if len(res.Appended) == 0 && t.InternalNotes == current.InternalNotes && t.AdminReply == current.AdminReply {
		return Result{Ticket: current}
	}
	t.UpdatedAt = now
	res.Ticket = t
	res.Changed = true
	return res
}

func fieldChange(field, from, to string) domain.HistoryEntry {
	return domain.HistoryEntry{
		Type:    domain.HistoryStatusChange,
		Content: fmt.Sprintf("%s changed from %s to %s", field, from, to),
		Author:  domain.SystemAuthor,
	}
}

func copyURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
