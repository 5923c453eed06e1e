package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"presencebot/internal/models"
)

const taskColumns = `id, guild_id, channel_id, title, notes, due_at, priority,
       created_by, created_at, claimed_by, claimed_at, done, completed_by, completed_at, message_id`

type TaskRepository interface {
	EnsureSchema(ctx context.Context) error
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id string) (*models.Task, error)
	FindByIDPrefix(ctx context.Context, guildID, prefix string, limit int) ([]models.Task, error)
	List(ctx context.Context, guildID string, filter models.ListFilter, limit int) ([]models.Task, error)
	SetMessageID(ctx context.Context, id, messageID string) error
	Claim(ctx context.Context, id, actorID string, at time.Time) error
	Unclaim(ctx context.Context, id string) error
	MarkDone(ctx context.Context, id, actorID string, at time.Time) error
	Delete(ctx context.Context, id string) error
	FindGhosts(ctx context.Context, guildID string, limit int) ([]models.Task, error)
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

// EnsureSchema creates the task table on first run, so a fresh database
// needs no external migration step.
func (r *taskRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			id           TEXT PRIMARY KEY,
			guild_id     TEXT NOT NULL,
			channel_id   TEXT NOT NULL,
			title        TEXT NOT NULL,
			notes        TEXT NOT NULL DEFAULT '',
			due_at       TIMESTAMPTZ,
			priority     INT NOT NULL DEFAULT 2,
			created_by   TEXT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			claimed_by   TEXT,
			claimed_at   TIMESTAMPTZ,
			done         BOOLEAN NOT NULL DEFAULT FALSE,
			completed_by TEXT,
			completed_at TIMESTAMPTZ,
			message_id   TEXT NOT NULL DEFAULT ''
		)`)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_tasks_guild ON tasks (guild_id)`)
	return err
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (
			id, guild_id, channel_id, title, notes, due_at, priority,
			created_by, created_at, done, message_id
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`
	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.GuildID, task.ChannelID, task.Title, task.Notes,
		task.DueAt, task.Priority, task.CreatedBy, task.CreatedAt,
		task.Done, task.MessageID,
	)
	return err
}

func (r *taskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) FindByIDPrefix(ctx context.Context, guildID, prefix string, limit int) ([]models.Task, error) {
	// Case-sensitive exact-prefix match. LIKE would treat % and _ as
	// wildcards, so compare on a substring instead.
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE guild_id = $1 AND left(id, length($2::text)) = $2
		ORDER BY created_at ASC
		LIMIT $3`
	return r.queryTasks(ctx, query, guildID, prefix, limit)
}

func (r *taskRepository) List(ctx context.Context, guildID string, filter models.ListFilter, limit int) ([]models.Task, error) {
	where := "guild_id = $1 AND done = FALSE"
	switch filter {
	case models.FilterClaimed:
		where = "guild_id = $1 AND done = FALSE AND claimed_by IS NOT NULL"
	case models.FilterDone:
		where = "guild_id = $1 AND done = TRUE"
	case models.FilterAll:
		where = "guild_id = $1"
	}
	query := fmt.Sprintf(`SELECT `+taskColumns+`
		FROM tasks
		WHERE %s
		ORDER BY done ASC, due_at ASC NULLS LAST, created_at ASC
		LIMIT $2`, where)
	return r.queryTasks(ctx, query, guildID, limit)
}

func (r *taskRepository) SetMessageID(ctx context.Context, id, messageID string) error {
	return r.exec(ctx, `UPDATE tasks SET message_id = $1 WHERE id = $2`, messageID, id)
}

func (r *taskRepository) Claim(ctx context.Context, id, actorID string, at time.Time) error {
	return r.exec(ctx,
		`UPDATE tasks SET claimed_by = $1, claimed_at = $2 WHERE id = $3`, actorID, at, id)
}

func (r *taskRepository) Unclaim(ctx context.Context, id string) error {
	return r.exec(ctx,
		`UPDATE tasks SET claimed_by = NULL, claimed_at = NULL WHERE id = $1`, id)
}

func (r *taskRepository) MarkDone(ctx context.Context, id, actorID string, at time.Time) error {
	return r.exec(ctx,
		`UPDATE tasks SET done = TRUE, completed_by = $1, completed_at = $2 WHERE id = $3`, actorID, at, id)
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
}

func (r *taskRepository) FindGhosts(ctx context.Context, guildID string, limit int) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE guild_id = $1 AND message_id = ''
		ORDER BY created_at ASC
		LIMIT $2`
	return r.queryTasks(ctx, query, guildID, limit)
}

func (r *taskRepository) exec(ctx context.Context, query string, args ...interface{}) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) queryTasks(ctx context.Context, query string, args ...interface{}) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	t := &models.Task{}
	err := row.Scan(
		&t.ID, &t.GuildID, &t.ChannelID, &t.Title, &t.Notes, &t.DueAt, &t.Priority,
		&t.CreatedBy, &t.CreatedAt, &t.ClaimedBy, &t.ClaimedAt,
		&t.Done, &t.CompletedBy, &t.CompletedAt, &t.MessageID,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}
