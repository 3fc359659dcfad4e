package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"taskpulse/internal/models"
)

type ProjectRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Project, error)
}

type projectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) FindByID(ctx context.Context, id int64) (*models.Project, error) {
	const q = `SELECT id, title, manager_id FROM projects WHERE id = $1`
	p := &models.Project{}
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.Title, &p.ManagerID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return p, nil
}
