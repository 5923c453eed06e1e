package models

import "time"

// PresenceStatus mirrors the gateway's status values plus the sentinel
// "unknown" used for roster members that cannot be resolved.
type PresenceStatus string

const (
	StatusOnline  PresenceStatus = "online"
	StatusIdle    PresenceStatus = "idle"
	StatusDND     PresenceStatus = "dnd"
	StatusOffline PresenceStatus = "offline"
	StatusUnknown PresenceStatus = "unknown"
)

type Activity struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// PresenceView is one roster member's entry in the presence payload.
type PresenceView struct {
	ID         string         `json:"id"`
	Username   string         `json:"username"`
	Status     PresenceStatus `json:"status"`
	Activities []Activity     `json:"activities"`
	AvatarURL  string         `json:"avatarUrl,omitempty"`
}

// PresenceSnapshot is the cached payload served by /api/presence.
type PresenceSnapshot struct {
	UpdatedAt time.Time      `json:"updatedAt"`
	Team      []PresenceView `json:"team"`
}

// UnknownPresence is the sentinel entry for a roster id the gateway cannot
// resolve; the whole request never fails over one missing member.
func UnknownPresence(id string) PresenceView {
	return PresenceView{
		ID:         id,
		Username:   "unknown",
		Status:     StatusUnknown,
		Activities: []Activity{},
	}
}
