package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"taskpulse/internal/models"
)

type ReminderRepository interface {
	Create(ctx context.Context, rem *models.Reminder) error
	FindByID(ctx context.Context, id int64) (*models.Reminder, error)
	ListByTask(ctx context.Context, taskID int64) ([]models.Reminder, error)
	// ListDue returns active, unsent reminders whose trigger time has
	// passed, oldest first so a backlog drains in order.
	ListDue(ctx context.Context, now time.Time) ([]models.Reminder, error)
	// MarkSent is unconditional: a reminder fires once, even when every
	// delivery channel failed.
	MarkSent(ctx context.Context, id int64, at time.Time) error
	// Deactivate soft-deletes a reminder. Returns false when no scheduled
	// reminder with that id exists.
	Deactivate(ctx context.Context, id int64) (bool, error)
	// InsertSweepMarker records "the sweep already fired for this task
	// today" as a single insert guarded by the (task_id, sweep_date)
	// unique index, stamped with the sweep's clock. Returns false when
	// today's marker already existed, so two overlapping sweeps can never
	// both claim the same day.
	InsertSweepMarker(ctx context.Context, taskID int64, day, at time.Time, detail string) (bool, error)
}

type reminderRepository struct {
	db *sql.DB
}

func NewReminderRepository(db *sql.DB) ReminderRepository {
	return &reminderRepository{db: db}
}

const reminderColumns = `id, task_id, user_id, remind_at, channel, message, source, sweep_date, is_active, sent_at, created_at`

func scanReminder(row interface{ Scan(...any) error }) (*models.Reminder, error) {
	rem := &models.Reminder{}
	var sweepDate, sentAt sql.NullTime
	var message, channel sql.NullString
	var userID sql.NullInt64
	err := row.Scan(
		&rem.ID, &rem.TaskID, &userID, &rem.RemindAt, &channel,
		&message, &rem.Source, &sweepDate, &rem.IsActive, &sentAt, &rem.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	// sweep markers carry no user or channel
	rem.UserID = userID.Int64
	rem.Channel = models.Channel(channel.String)
	rem.Message = message.String
	if sweepDate.Valid {
		rem.SweepDate = &sweepDate.Time
	}
	if sentAt.Valid {
		rem.SentAt = &sentAt.Time
	}
	return rem, nil
}

func (r *reminderRepository) Create(ctx context.Context, rem *models.Reminder) error {
	const q = `
		INSERT INTO reminders (task_id, user_id, remind_at, channel, message, source, is_active)
		VALUES ($1, $2, $3, $4, NULLIF($5,''), $6, $7)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowContext(ctx, q,
		rem.TaskID, rem.UserID, rem.RemindAt, rem.Channel, rem.Message, rem.Source, rem.IsActive,
	).Scan(&rem.ID, &rem.CreatedAt); err != nil {
		return fmt.Errorf("create reminder: %w", err)
	}
	return nil
}

func (r *reminderRepository) FindByID(ctx context.Context, id int64) (*models.Reminder, error) {
	const q = `SELECT ` + reminderColumns + ` FROM reminders WHERE id = $1`
	rem, err := scanReminder(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find reminder: %w", err)
	}
	return rem, nil
}

func (r *reminderRepository) ListByTask(ctx context.Context, taskID int64) ([]models.Reminder, error) {
	const q = `SELECT ` + reminderColumns + ` FROM reminders WHERE task_id = $1 ORDER BY remind_at ASC`
	return r.list(ctx, q, taskID)
}

func (r *reminderRepository) ListDue(ctx context.Context, now time.Time) ([]models.Reminder, error) {
	const q = `
SELECT ` + reminderColumns + `
FROM reminders
WHERE is_active = TRUE
  AND sent_at IS NULL
  AND source = 'user'
  AND remind_at <= $1
ORDER BY remind_at ASC`
	return r.list(ctx, q, now)
}

func (r *reminderRepository) list(ctx context.Context, q string, args ...any) ([]models.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rem)
	}
	return out, rows.Err()
}

func (r *reminderRepository) MarkSent(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE reminders SET sent_at=$1 WHERE id=$2 AND sent_at IS NULL`, at, id)
	return err
}

func (r *reminderRepository) Deactivate(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reminders SET is_active=FALSE WHERE id=$1 AND is_active=TRUE AND sent_at IS NULL`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *reminderRepository) InsertSweepMarker(ctx context.Context, taskID int64, day, at time.Time, detail string) (bool, error) {
	const q = `
		INSERT INTO reminders (task_id, user_id, remind_at, channel, message, source, sweep_date, is_active, sent_at)
		VALUES ($1, NULL, $2, NULL, NULLIF($3,''), 'sweep', $4::date, TRUE, $2)
		ON CONFLICT (task_id, sweep_date) WHERE source = 'sweep' DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, q, taskID, at, detail, day)
	if err != nil {
		return false, fmt.Errorf("insert sweep marker: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
