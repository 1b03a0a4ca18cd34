package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "new"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
	TicketStatusReopened   TicketStatus = "re-opened"
)

// Valid reports whether the status is one of the known states.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusNew, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed, TicketStatusReopened:
		return true
	}
	return false
}

// TicketPriority enumerates admin-assigned urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// Valid reports whether the priority is one of the known levels.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// TicketTopic is the fixed category a requester picks on submission.
type TicketTopic string

const (
	TopicGeneral      TicketTopic = "general"
	TopicTransactions TicketTopic = "transactions"
	TopicAccount      TicketTopic = "account"
	TopicSecurity     TicketTopic = "security"
	TopicOther        TicketTopic = "other"
)

// Valid reports whether the topic is part of the enumeration.
func (t TicketTopic) Valid() bool {
	switch t {
	case TopicGeneral, TopicTransactions, TopicAccount, TopicSecurity, TopicOther:
		return true
	}
	return false
}

// UpdateAction names an admin operation that bundles a transition with a history append.
type UpdateAction string

const (
	ActionReply   UpdateAction = "reply"
	ActionResolve UpdateAction = "resolve"
)

// Valid reports whether the action is known.
func (a UpdateAction) Valid() bool {
	return a == ActionReply || a == ActionResolve
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	TicketID      string         `json:"ticketId"`
	Email         string         `json:"email"`
	Topic         TicketTopic    `json:"topic"`
	Message       string         `json:"message"`
	Status        TicketStatus   `json:"status"`
	Priority      TicketPriority `json:"priority"`
	WalletAddress *string        `json:"walletAddress,omitempty"`
	Language      string         `json:"language"`
	InternalNotes string         `json:"internal_notes"`
	AdminReply    string         `json:"admin_reply"`
	Attachments   []string       `json:"attachments"`
	History       []HistoryEntry `json:"history"`
	Version       int64          `json:"version"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	ResolvedAt    *time.Time     `json:"resolvedAt,omitempty"`
}

// Clone returns a deep copy so callers can mutate without touching the original.
func (t Ticket) Clone() Ticket {
	out := t
	if t.WalletAddress != nil {
		wallet := *t.WalletAddress
		out.WalletAddress = &wallet
	}
	if t.ResolvedAt != nil {
		resolved := *t.ResolvedAt
		out.ResolvedAt = &resolved
	}
	if t.Attachments != nil {
		out.Attachments = append(make([]string, 0, len(t.Attachments)), t.Attachments...)
	}
	out.History = make([]HistoryEntry, len(t.History))
	for i, entry := range t.History {
		out.History[i] = entry.Clone()
	}
	return out
}

// LastReply returns the most recent admin reply, falling back to the history trail.
func (t Ticket) LastReply() string {
	if t.AdminReply != "" {
		return t.AdminReply
	}
	for i := len(t.History) - 1; i >= 0; i-- {
		if t.History[i].Type == HistoryAdminReply {
			return t.History[i].Content
		}
	}
	return ""
}
