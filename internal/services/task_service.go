package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"presencebot/internal/authz"
	"presencebot/internal/models"
	"presencebot/internal/repositories"
)

// Result caps per operation.
const (
	prefixProbeLimit = 2
	listLimit        = 20
	cleanupScanLimit = 200
)

// TaskService is the lifecycle controller: it validates commands against the
// current task state and actor, applies store mutations, and drives the
// message mirror. The store itself enforces nothing beyond uniqueness.
type TaskService struct {
	tasks  repositories.TaskRepository
	mirror *MirrorService
	now    func() time.Time
}

func NewTaskService(tasks repositories.TaskRepository, mirror *MirrorService) *TaskService {
	return &TaskService{tasks: tasks, mirror: mirror, now: time.Now}
}

type AddTaskInput struct {
	GuildID   string
	ChannelID string
	Title     string
	Notes     string
	Due       string // "YYYY-MM-DD" or "YYYY-MM-DD HH:mm", optional
	Priority  int    // clamped into 1..3
	ActorID   string
}

// Add creates a task and posts its mirror message. Create-then-post is not
// atomic, so a failed post deletes the just-created record again instead of
// leaving a claimable but unpostable task behind.
func (s *TaskService) Add(ctx context.Context, in AddTaskInput) (*models.Task, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	task := &models.Task{
		ID:        uuid.NewString(),
		GuildID:   in.GuildID,
		ChannelID: in.ChannelID,
		Title:     in.Title,
		Notes:     in.Notes,
		DueAt:     models.ParseDue(in.Due),
		Priority:  models.ClampPriority(in.Priority),
		CreatedBy: in.ActorID,
		CreatedAt: s.now(),
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	msgID, err := s.mirror.Post(task)
	if err != nil {
		if delErr := s.tasks.Delete(ctx, task.ID); delErr != nil {
			log.Printf("[task][add][err] rollback of %s failed: %v", task.ShortID(), delErr)
		}
		return nil, fmt.Errorf("post task message: %w", err)
	}
	if err := s.tasks.SetMessageID(ctx, task.ID, msgID); err != nil {
		// The message exists; the record just lost its pointer. Cleanup
		// will collect it as a ghost.
		log.Printf("[task][add][err] persist message id for %s: %v", task.ShortID(), err)
	}
	task.MessageID = msgID
	return task, nil
}

func (s *TaskService) List(ctx context.Context, guildID string, filter models.ListFilter) ([]models.Task, error) {
	return s.tasks.List(ctx, guildID, filter, listLimit)
}

func (s *TaskService) Get(ctx context.Context, id string) (*models.Task, error) {
	return s.tasks.FindByID(ctx, id)
}

// Resolve finds the single task matching an id prefix of at least six
// characters. Zero matches is not-found; two or more is a reportable
// ambiguity, never a silent pick.
func (s *TaskService) Resolve(ctx context.Context, guildID, prefix string) (*models.Task, error) {
	if len(prefix) < models.IDPrefixMin {
		return nil, models.ErrBadIDPrefix
	}
	hits, err := s.tasks.FindByIDPrefix(ctx, guildID, prefix, prefixProbeLimit)
	if err != nil {
		return nil, fmt.Errorf("find by prefix: %w", err)
	}
	switch len(hits) {
	case 0:
		return nil, models.ErrTaskNotFound
	case 1:
		return &hits[0], nil
	}
	return nil, models.ErrAmbiguousID
}

// ToggleClaim flips the claim state. The same actor unclaims; any other
// actor takes the claim over, last write wins. The mirror refresh is
// best-effort and never fails the toggle.
func (s *TaskService) ToggleClaim(ctx context.Context, taskID, actorID string) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.ClaimedBy != nil && *task.ClaimedBy == actorID {
		err = s.tasks.Unclaim(ctx, taskID)
	} else {
		err = s.tasks.Claim(ctx, taskID, actorID, s.now())
	}
	if err != nil {
		return nil, fmt.Errorf("toggle claim: %w", err)
	}
	updated, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	s.mirror.Refresh(updated)
	return updated, nil
}

// Complete marks a task done exactly once. Completing an already-done task
// reports ErrAlreadyDone without touching completedAt.
func (s *TaskService) Complete(ctx context.Context, taskID, actorID string) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Done {
		return task, models.ErrAlreadyDone
	}
	if err := s.tasks.MarkDone(ctx, taskID, actorID, s.now()); err != nil {
		return nil, fmt.Errorf("mark done: %w", err)
	}
	updated, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	s.mirror.Refresh(updated)
	return updated, nil
}

// Delete removes the record and its mirror message. Only the creator or a
// moderator may delete.
func (s *TaskService) Delete(ctx context.Context, task *models.Task, actorID string, moderator bool) error {
	if !authz.CanDeleteTask(task, actorID, moderator) {
		return models.ErrNotAllowed
	}
	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	s.mirror.Remove(task)
	return nil
}

// Cleanup deletes every ghost task in the guild (bounded scan). There is no
// mirror message to remove by definition.
func (s *TaskService) Cleanup(ctx context.Context, guildID string, moderator bool) (int, error) {
	if !moderator {
		return 0, models.ErrNotAllowed
	}
	ghosts, err := s.tasks.FindGhosts(ctx, guildID, cleanupScanLimit)
	if err != nil {
		return 0, fmt.Errorf("find ghosts: %w", err)
	}
	for i := range ghosts {
		if err := s.tasks.Delete(ctx, ghosts[i].ID); err != nil {
			return i, fmt.Errorf("delete ghost %s: %w", ghosts[i].ShortID(), err)
		}
	}
	return len(ghosts), nil
}
