package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"taskpulse/internal/models"
)

type TaskRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) error
	// UpdateStatusIf moves status only when the task currently has `from`.
	// Returns false when the task was in some other status already.
	UpdateStatusIf(ctx context.Context, id int64, from, to models.TaskStatus) (bool, error)
	// ListDueSoon returns non-terminal tasks whose due date falls before
	// `before`, i.e. everything the due-date sweep has to classify.
	ListDueSoon(ctx context.Context, before time.Time) ([]models.Task, error)
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, project_id, title, description, due_date, priority, status, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	t := &models.Task{}
	err := row.Scan(
		&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.DueDate,
		&t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return t, nil
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status=$1, updated_at=NOW() WHERE id=$2`, to, id)
	return err
}

func (r *taskRepository) UpdateStatusIf(ctx context.Context, id int64, from, to models.TaskStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`, to, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *taskRepository) ListDueSoon(ctx context.Context, before time.Time) ([]models.Task, error) {
	q := `
SELECT ` + taskColumns + `
FROM tasks
WHERE due_date IS NOT NULL
  AND due_date::date < $1::date
  AND status NOT IN ('completed','cancelled','rejected')
ORDER BY due_date ASC`
	rows, err := r.db.QueryContext(ctx, q, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}
