package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lalith-99/plotgrid/internal/models"
)

type ProjectStore struct {
	db DBTX
}

func NewProjectStore(db DBTX) *ProjectStore {
	return &ProjectStore{db: db}
}

func (s *ProjectStore) Save(ctx context.Context, p *models.Project) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	cells, err := marshalCells(p.GridCells)
	if err != nil {
		return "", err
	}

	query := `
		INSERT INTO projects (id, name, description, location, template_id, grid_rows, grid_cols, grid_cells, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			location = EXCLUDED.location,
			template_id = EXCLUDED.template_id,
			grid_rows = EXCLUDED.grid_rows,
			grid_cols = EXCLUDED.grid_cols,
			grid_cells = EXCLUDED.grid_cells,
			updated_at = now()
		RETURNING created_by, created_at, updated_at`

	err = s.db.QueryRow(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.Location,
		p.TemplateID,
		p.GridSize.Rows,
		p.GridSize.Cols,
		cells,
		p.CreatedBy,
	).Scan(
		&p.CreatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("upsert project: %w", err)
	}
	return p.ID, nil
}

func (s *ProjectStore) Load(ctx context.Context, id string) (*models.Project, error) {
	query := `
		SELECT id, name, description, location, template_id, grid_rows, grid_cols, grid_cells, created_by, created_at, updated_at
		FROM projects
		WHERE id = $1`

	var (
		p     models.Project
		cells []byte
	)
	err := s.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Location,
		&p.TemplateID,
		&p.GridSize.Rows,
		&p.GridSize.Cols,
		&cells,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	if p.GridCells, err = unmarshalCells(cells); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProjectStore) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *ProjectStore) List(ctx context.Context) ([]models.ProjectSummary, error) {
	query := `
		SELECT id, name, description, location, template_id, grid_rows, grid_cols, created_by, created_at, updated_at
		FROM projects
		ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]models.ProjectSummary, 0)
	for rows.Next() {
		var p models.ProjectSummary
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Location,
			&p.TemplateID,
			&p.GridSize.Rows,
			&p.GridSize.Cols,
			&p.CreatedBy,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	return projects, nil
}
