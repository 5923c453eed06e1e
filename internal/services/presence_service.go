package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"presencebot/internal/models"
)

// Roster resolves presence for individual members of the configured team.
// A nil view with a nil error means the member cannot be resolved right now;
// the service substitutes the "unknown" sentinel for it.
type Roster interface {
	Ready() bool
	MemberPresence(ctx context.Context, userID string) (*models.PresenceView, error)
}

// PresenceService memoizes the roster lookup for a fixed window. The cached
// snapshot is replaced wholesale, never patched, so readers either see the
// old one or the new one. Two callers that miss at the same time may both
// recompute; there is deliberately no single-flight here.
type PresenceService struct {
	roster  Roster
	userIDs []string
	window  time.Duration
	now     func() time.Time

	mu       sync.Mutex
	cached   *models.PresenceSnapshot
	cachedAt time.Time
}

func NewPresenceService(roster Roster, userIDs []string, window time.Duration) *PresenceService {
	return &PresenceService{
		roster:  roster,
		userIDs: userIDs,
		window:  window,
		now:     time.Now,
	}
}

// Ready reports whether the gateway behind the roster is connected.
func (s *PresenceService) Ready() bool {
	return s.roster.Ready()
}

// Snapshot returns the cached snapshot while it is fresh, recomputing it
// otherwise. Callers within the window get the identical snapshot back,
// same UpdatedAt included.
func (s *PresenceService) Snapshot(ctx context.Context) (*models.PresenceSnapshot, error) {
	s.mu.Lock()
	if s.cached != nil && s.now().Sub(s.cachedAt) < s.window {
		snap := s.cached
		s.mu.Unlock()
		return snap, nil
	}
	s.mu.Unlock()

	team := make([]models.PresenceView, 0, len(s.userIDs))
	for _, id := range s.userIDs {
		view, err := s.roster.MemberPresence(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("presence for %s: %w", id, err)
		}
		if view == nil {
			v := models.UnknownPresence(id)
			view = &v
		}
		team = append(team, *view)
	}
	snap := &models.PresenceSnapshot{UpdatedAt: s.now(), Team: team}

	s.mu.Lock()
	s.cached = snap
	s.cachedAt = s.now()
	s.mu.Unlock()
	return snap, nil
}
