package domain

import "time"

// HistoryType captures what kind of fact a history entry records.
type HistoryType string

const (
	HistoryUserMessage  HistoryType = "user_message"
	HistoryAdminReply   HistoryType = "admin_reply"
	HistoryStatusChange HistoryType = "status_change"
	HistoryNote         HistoryType = "note"
)

// SystemAuthor signs entries produced by the service itself.
const SystemAuthor = "System"

// HistoryEntry is an immutable audit trail entry.
type HistoryEntry struct {
	Type        HistoryType `json:"type"`
	Content     string      `json:"content"`
	Attachments []string    `json:"attachments,omitempty"`
	Author      string      `json:"author"`
	Timestamp   time.Time   `json:"timestamp"`
}

// Clone copies the entry including its attachment slice.
func (h HistoryEntry) Clone() HistoryEntry {
	out := h
	if h.Attachments != nil {
		out.Attachments = append(make([]string, 0, len(h.Attachments)), h.Attachments...)
	}
	return out
}
