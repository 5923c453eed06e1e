// Package testutil provides hand-rolled fakes for the bot's collaborator
// interfaces so the lifecycle and cache logic can be tested without a
// database or a gateway connection.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"presencebot/internal/models"
)

// MemoryTaskRepository is an in-memory repositories.TaskRepository with the
// same filter and ordering semantics as the SQL implementation.
type MemoryTaskRepository struct {
	mu    sync.Mutex
	tasks map[string]models.Task
}

func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{tasks: map[string]models.Task{}}
}

func (r *MemoryTaskRepository) EnsureSchema(context.Context) error { return nil }

func (r *MemoryTaskRepository) Create(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[task.ID] = *task
	return nil
}

func (r *MemoryTaskRepository) FindByID(_ context.Context, id string) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, models.ErrTaskNotFound
	}
	return &t, nil
}

func (r *MemoryTaskRepository) FindByIDPrefix(_ context.Context, guildID, prefix string, limit int) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Task
	for _, t := range r.tasks {
		if t.GuildID == guildID && strings.HasPrefix(t.ID, prefix) {
			out = append(out, t)
		}
	}
	sortTasks(out, func(a, b models.Task) bool { return a.CreatedAt.Before(b.CreatedAt) })
	return capTasks(out, limit), nil
}

func (r *MemoryTaskRepository) List(_ context.Context, guildID string, filter models.ListFilter, limit int) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Task
	for _, t := range r.tasks {
		if t.GuildID != guildID {
			continue
		}
		switch filter {
		case models.FilterClaimed:
			if t.Done || t.ClaimedBy == nil {
				continue
			}
		case models.FilterDone:
			if !t.Done {
				continue
			}
		case models.FilterAll:
		default:
			if t.Done {
				continue
			}
		}
		out = append(out, t)
	}
	sortTasks(out, func(a, b models.Task) bool {
		if a.Done != b.Done {
			return !a.Done
		}
		if da, db := a.DueAt, b.DueAt; da != nil || db != nil {
			if da == nil {
				return false
			}
			if db == nil {
				return true
			}
			if !da.Equal(*db) {
				return da.Before(*db)
			}
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return capTasks(out, limit), nil
}

func (r *MemoryTaskRepository) SetMessageID(_ context.Context, id, messageID string) error {
	return r.patch(id, func(t *models.Task) { t.MessageID = messageID })
}

func (r *MemoryTaskRepository) Claim(_ context.Context, id, actorID string, at time.Time) error {
	return r.patch(id, func(t *models.Task) {
		t.ClaimedBy = &actorID
		t.ClaimedAt = &at
	})
}

func (r *MemoryTaskRepository) Unclaim(_ context.Context, id string) error {
	return r.patch(id, func(t *models.Task) {
		t.ClaimedBy = nil
		t.ClaimedAt = nil
	})
}

func (r *MemoryTaskRepository) MarkDone(_ context.Context, id, actorID string, at time.Time) error {
	return r.patch(id, func(t *models.Task) {
		t.Done = true
		t.CompletedBy = &actorID
		t.CompletedAt = &at
	})
}

func (r *MemoryTaskRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return models.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *MemoryTaskRepository) FindGhosts(_ context.Context, guildID string, limit int) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Task
	for _, t := range r.tasks {
		if t.GuildID == guildID && t.MessageID == "" {
			out = append(out, t)
		}
	}
	sortTasks(out, func(a, b models.Task) bool { return a.CreatedAt.Before(b.CreatedAt) })
	return capTasks(out, limit), nil
}

// Len reports the number of stored tasks.
func (r *MemoryTaskRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

func (r *MemoryTaskRepository) patch(id string, fn func(*models.Task)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return models.ErrTaskNotFound
	}
	fn(&t)
	r.tasks[id] = t
	return nil
}

func sortTasks(tasks []models.Task, less func(a, b models.Task) bool) {
	sort.SliceStable(tasks, func(i, j int) bool { return less(tasks[i], tasks[j]) })
}

func capTasks(tasks []models.Task, limit int) []models.Task {
	if limit > 0 && len(tasks) > limit {
		return tasks[:limit]
	}
	return tasks
}
