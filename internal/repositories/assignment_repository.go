package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"taskpulse/internal/models"
)

type AssignmentRepository interface {
	Create(ctx context.Context, a *models.Assignment) error
	FindByID(ctx context.Context, id int64) (*models.Assignment, error)
	// FindByToken resolves a confirmation token scoped to one task.
	FindByToken(ctx context.Context, taskID int64, token string) (*models.Assignment, error)
	FindByTask(ctx context.Context, taskID int64) ([]models.Assignment, error)
	// Respond applies the pending -> to transition as a single conditional
	// update. Returns false when the row was not pending anymore, which the
	// caller resolves into idempotent replay or conflict.
	Respond(ctx context.Context, id int64, to models.AssignmentStatus, reason string) (bool, error)
}

type assignmentRepository struct {
	db *sql.DB
}

func NewAssignmentRepository(db *sql.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

const assignmentColumns = `id, task_id, user_id, status, confirmation_token, token_expires_at, responded_at, reject_reason, created_at`

func scanAssignment(row interface{ Scan(...any) error }) (*models.Assignment, error) {
	a := &models.Assignment{}
	var respondedAt sql.NullTime
	var reason sql.NullString
	err := row.Scan(
		&a.ID, &a.TaskID, &a.UserID, &a.Status, &a.ConfirmationToken,
		&a.TokenExpiresAt, &respondedAt, &reason, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if respondedAt.Valid {
		a.RespondedAt = &respondedAt.Time
	}
	a.RejectReason = reason.String
	return a, nil
}

func (r *assignmentRepository) Create(ctx context.Context, a *models.Assignment) error {
	const q = `
		INSERT INTO task_assignments (task_id, user_id, status, confirmation_token, token_expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowContext(ctx, q,
		a.TaskID, a.UserID, a.Status, a.ConfirmationToken, a.TokenExpiresAt,
	).Scan(&a.ID, &a.CreatedAt); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

func (r *assignmentRepository) FindByID(ctx context.Context, id int64) (*models.Assignment, error) {
	const q = `SELECT ` + assignmentColumns + ` FROM task_assignments WHERE id = $1`
	a, err := scanAssignment(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	return a, nil
}

func (r *assignmentRepository) FindByToken(ctx context.Context, taskID int64, token string) (*models.Assignment, error) {
	const q = `SELECT ` + assignmentColumns + ` FROM task_assignments WHERE task_id = $1 AND confirmation_token = $2`
	a, err := scanAssignment(r.db.QueryRowContext(ctx, q, taskID, token))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find assignment by token: %w", err)
	}
	return a, nil
}

func (r *assignmentRepository) FindByTask(ctx context.Context, taskID int64) ([]models.Assignment, error) {
	const q = `SELECT ` + assignmentColumns + ` FROM task_assignments WHERE task_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, q, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *assignmentRepository) Respond(ctx context.Context, id int64, to models.AssignmentStatus, reason string) (bool, error) {
	const q = `
		UPDATE task_assignments
		SET status=$1, reject_reason=NULLIF($2,''), responded_at=$3
		WHERE id=$4 AND status='pending'
	`
	res, err := r.db.ExecContext(ctx, q, to, reason, time.Now(), id)
	if err != nil {
		return false, fmt.Errorf("respond assignment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
