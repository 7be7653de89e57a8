package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lalith-99/plotgrid/internal/models"
)

type TemplateStore struct {
	db DBTX
}

func NewTemplateStore(db DBTX) *TemplateStore {
	return &TemplateStore{db: db}
}

// Save upserts on id. created_by and created_at belong to the first write.
func (s *TemplateStore) Save(ctx context.Context, t *models.Template) (string, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	cells, err := marshalCells(t.GridCells)
	if err != nil {
		return "", err
	}

	// Why one upsert instead of "SELECT, then INSERT or UPDATE"? The service
	// does not care whether this is a create or an overwrite, and a single
	// statement cannot race with itself. ON CONFLICT leaves created_by and
	// created_at alone, and RETURNING hands the stored values back so the
	// caller's struct matches the row.
	query := `
		INSERT INTO templates (id, name, description, grid_rows, grid_cols, grid_cells, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			grid_rows = EXCLUDED.grid_rows,
			grid_cols = EXCLUDED.grid_cols,
			grid_cells = EXCLUDED.grid_cells,
			updated_at = now()
		RETURNING created_by, created_at, updated_at`

	err = s.db.QueryRow(ctx, query,
		t.ID,
		t.Name,
		t.Description,
		t.GridSize.Rows,
		t.GridSize.Cols,
		cells,
		t.CreatedBy,
	).Scan(
		&t.CreatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("upsert template: %w", err)
	}
	return t.ID, nil
}

func (s *TemplateStore) Load(ctx context.Context, id string) (*models.Template, error) {
	query := `
		SELECT id, name, description, grid_rows, grid_cols, grid_cells, created_by, created_at, updated_at
		FROM templates
		WHERE id = $1`

	var (
		t     models.Template
		cells []byte
	)
	err := s.db.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.GridSize.Rows,
		&t.GridSize.Cols,
		&cells,
		&t.CreatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	if t.GridCells, err = unmarshalCells(cells); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TemplateStore) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete template: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *TemplateStore) List(ctx context.Context) ([]models.TemplateSummary, error) {
	query := `
		SELECT id, name, description, grid_rows, grid_cols, created_by, created_at, updated_at
		FROM templates
		ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	templates := make([]models.TemplateSummary, 0)
	for rows.Next() {
		var t models.TemplateSummary
		if err := rows.Scan(
			&t.ID,
			&t.Name,
			&t.Description,
			&t.GridSize.Rows,
			&t.GridSize.Cols,
			&t.CreatedBy,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}

	return templates, nil
}
