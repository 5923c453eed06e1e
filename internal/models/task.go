package models

import (
	"strings"
	"time"
)

// Task priorities. Anything outside the range is clamped, never rejected.
const (
	PriorityHigh   = 1
	PriorityNormal = 2
	PriorityLow    = 3
)

// Task is a channel-scoped to-do item mirrored into a chat message.
// ClaimedBy/ClaimedAt and CompletedBy/CompletedAt are set and cleared as
// pairs. An empty MessageID marks a ghost task: the mirror message was never
// posted or has been lost.
type Task struct {
	ID          string     `json:"id"`
	GuildID     string     `json:"guildId"`
	ChannelID   string     `json:"channelId"`
	Title       string     `json:"title"`
	Notes       string     `json:"notes,omitempty"`
	DueAt       *time.Time `json:"dueAt,omitempty"`
	Priority    int        `json:"priority"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	ClaimedBy   *string    `json:"claimedBy,omitempty"`
	ClaimedAt   *time.Time `json:"claimedAt,omitempty"`
	Done        bool       `json:"done"`
	CompletedBy *string    `json:"completedBy,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	MessageID   string     `json:"messageId,omitempty"`
}

// Ghost reports whether the task has no mirror message.
func (t *Task) Ghost() bool {
	return t.MessageID == ""
}

// ListFilter selects which tasks a listing returns.
type ListFilter string

const (
	FilterOpen    ListFilter = "open"
	FilterClaimed ListFilter = "claimed"
	FilterDone    ListFilter = "done"
	FilterAll     ListFilter = "all"
)

// ParseListFilter maps user input to a filter, defaulting to open.
func ParseListFilter(s string) ListFilter {
	switch ListFilter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterClaimed:
		return FilterClaimed
	case FilterDone:
		return FilterDone
	case FilterAll:
		return FilterAll
	}
	return FilterOpen
}

// ClampPriority forces p into the 1..3 range.
func ClampPriority(p int) int {
	if p < PriorityHigh {
		return PriorityHigh
	}
	if p > PriorityLow {
		return PriorityLow
	}
	return p
}

// ParseDue accepts "YYYY-MM-DD" or "YYYY-MM-DD HH:mm" and returns nil for
// empty or unparseable input.
func ParseDue(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	layout := "2006-01-02 15:04"
	if len(s) <= 10 {
		layout = "2006-01-02"
	}
	t, err := time.ParseInLocation(layout, s, time.Local)
	if err != nil {
		return nil
	}
	return &t
}

// IDPrefixMin is the shortest task-ID prefix accepted by commands.
const IDPrefixMin = 6

// ShortID is the truncated form shown to users and in message footers.
func (t *Task) ShortID() string {
	if len(t.ID) < IDPrefixMin {
		return t.ID
	}
	return t.ID[:IDPrefixMin]
}
