package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"taskpulse/internal/models"
)

type DeliveryLogRepository interface {
	// Append writes one audit row. Rows are never updated or deleted.
	Append(ctx context.Context, e *models.DeliveryLogEntry) error
	// List returns a page of entries newest-first plus the total count
	// matching the filter.
	List(ctx context.Context, filter models.DeliveryFilter) ([]models.DeliveryLogEntry, int, error)
}

type deliveryLogRepository struct {
	db *sql.DB
}

func NewDeliveryLogRepository(db *sql.DB) DeliveryLogRepository {
	return &deliveryLogRepository{db: db}
}

func (r *deliveryLogRepository) Append(ctx context.Context, e *models.DeliveryLogEntry) error {
	const q = `
		INSERT INTO delivery_log (channel, recipient, subject, body, status, error, task_id, user_id)
		VALUES ($1, $2, NULLIF($3,''), $4, $5, NULLIF($6,''), NULLIF($7,0), NULLIF($8,0))
		RETURNING id, created_at
	`
	if err := r.db.QueryRowContext(ctx, q,
		e.Channel, e.Recipient, e.Subject, e.Body, e.Status, e.Error, e.TaskID, e.UserID,
	).Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("append delivery log: %w", err)
	}
	return nil
}

func (r *deliveryLogRepository) List(ctx context.Context, filter models.DeliveryFilter) ([]models.DeliveryLogEntry, int, error) {
	conditions := []string{}
	args := []any{}
	argID := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Channel != nil {
		conditions = append(conditions, fmt.Sprintf("channel = $%d", argID))
		args = append(args, *filter.Channel)
		argID++
	}
	if filter.TaskID != nil {
		conditions = append(conditions, fmt.Sprintf("task_id = $%d", argID))
		args = append(args, *filter.TaskID)
		argID++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM delivery_log`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	q := `SELECT id, channel, recipient, subject, body, status, error, task_id, user_id, created_at
FROM delivery_log` + where + fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []models.DeliveryLogEntry
	for rows.Next() {
		var e models.DeliveryLogEntry
		var subject, errDetail sql.NullString
		var taskID, userID sql.NullInt64
		if err := rows.Scan(
			&e.ID, &e.Channel, &e.Recipient, &subject, &e.Body, &e.Status,
			&errDetail, &taskID, &userID, &e.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		e.Subject = subject.String
		e.Error = errDetail.String
		e.TaskID = taskID.Int64
		e.UserID = userID.Int64
		out = append(out, e)
	}
	return out, total, rows.Err()
}
