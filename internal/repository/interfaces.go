package repository

import (
	"context"

	"github.com/lalith-99/plotgrid/internal/models"
)

// Every method takes ctx first and is the only place the layout code
// suspends. Implementations are black-box document stores: last write wins,
// no versioning.

// TemplateRepository persists layout templates.
type TemplateRepository interface {
	// Save creates the template when t.ID is empty and overwrites the record
	// at t.ID otherwise, keeping the original CreatedAt. It returns the id and
	// fills t.ID, t.CreatedAt and t.UpdatedAt.
	Save(ctx context.Context, t *models.Template) (string, error)

	// Load returns nil, nil when no template has that id.
	Load(ctx context.Context, id string) (*models.Template, error)

	// Delete reports false when no template had that id.
	Delete(ctx context.Context, id string) (bool, error)

	// List returns every template, newest first. Empty slice, never nil.
	List(ctx context.Context) ([]models.TemplateSummary, error)
}

// ProjectRepository persists live projects. Same contract as
// TemplateRepository.
type ProjectRepository interface {
	Save(ctx context.Context, p *models.Project) (string, error)
	Load(ctx context.Context, id string) (*models.Project, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]models.ProjectSummary, error)
}
