package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"taskpulse/internal/models"
)

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	// ListManagersAndAdmins feeds the rejection broadcast.
	ListManagersAndAdmins(ctx context.Context) ([]models.User, error)
	// ListAssignees returns every user currently assigned to a task.
	ListAssignees(ctx context.Context, taskID int64) ([]models.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, phone, role, notify_email, notify_sms, notify_whatsapp`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var phone sql.NullString
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &phone, &u.Role,
		&u.Prefs.Email, &u.Prefs.SMS, &u.Prefs.WhatsApp,
	)
	if err != nil {
		return nil, err
	}
	u.Phone = phone.String
	return u, nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (r *userRepository) ListManagersAndAdmins(ctx context.Context) ([]models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE role IN ('manager','admin') ORDER BY id`
	return r.list(ctx, q)
}

func (r *userRepository) ListAssignees(ctx context.Context, taskID int64) ([]models.User, error) {
	const q = `
		SELECT u.id, u.name, u.email, u.phone, u.role, u.notify_email, u.notify_sms, u.notify_whatsapp
		FROM users u
		JOIN task_assignments ta ON ta.user_id = u.id
		WHERE ta.task_id = $1
		ORDER BY u.id`
	return r.list(ctx, q, taskID)
}

func (r *userRepository) list(ctx context.Context, q string, args ...any) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}
