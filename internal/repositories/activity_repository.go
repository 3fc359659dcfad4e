package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"taskpulse/internal/models"
)

type ActivityRepository interface {
	Append(ctx context.Context, a *models.TaskActivity) error
	ListByTask(ctx context.Context, taskID int64) ([]models.TaskActivity, error)
}

type activityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Append(ctx context.Context, a *models.TaskActivity) error {
	const q = `
		INSERT INTO task_activity (task_id, user_id, action, detail)
		VALUES ($1, $2, $3, NULLIF($4,''))
		RETURNING id, created_at
	`
	if err := r.db.QueryRowContext(ctx, q,
		a.TaskID, a.UserID, a.Action, a.Detail,
	).Scan(&a.ID, &a.CreatedAt); err != nil {
		return fmt.Errorf("append task activity: %w", err)
	}
	return nil
}

func (r *activityRepository) ListByTask(ctx context.Context, taskID int64) ([]models.TaskActivity, error) {
	const q = `
		SELECT id, task_id, user_id, action, COALESCE(detail, ''), created_at
		FROM task_activity WHERE task_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TaskActivity
	for rows.Next() {
		var a models.TaskActivity
		if err := rows.Scan(&a.ID, &a.TaskID, &a.UserID, &a.Action, &a.Detail, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
