// Package service sits between the HTTP handlers and the repositories. It
// validates layouts before they are persisted and turns storage outcomes
// into ErrNotFound and PersistenceError.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lalith-99/plotgrid/internal/layout"
	"github.com/lalith-99/plotgrid/internal/models"
	"github.com/lalith-99/plotgrid/internal/repository"
)

type TemplateService struct {
	repo   repository.TemplateRepository
	logger *zap.Logger
}

func NewTemplateService(repo repository.TemplateRepository, logger *zap.Logger) *TemplateService {
	return &TemplateService{repo: repo, logger: logger}
}

// Validate runs every publishability rule and reports all failures.
func (s *TemplateService) Validate(d *layout.Draft) []layout.Result {
	return layout.ValidateAll(d.Name, d.Grid)
}

// Save validates d and persists it. A draft without an ID creates a new
// template; otherwise the stored template is overwritten. On success d.ID is
// set.
func (s *TemplateService) Save(ctx context.Context, d *layout.Draft, userID string) (*models.Template, error) {
	if err := d.Validate().Err(); err != nil {
		return nil, err
	}

	t := models.NewTemplate(d, userID)
	id, err := s.repo.Save(ctx, t)
	if err != nil {
		s.logger.Error("failed to save template",
			zap.String("template_id", d.ID),
			zap.Error(err),
		)
		return nil, persistence("save", err)
	}
	d.ID = id
	return t, nil
}

// Update overwrites an existing template. Unlike Save it refuses to create.
func (s *TemplateService) Update(ctx context.Context, id string, d *layout.Draft, userID string) (*models.Template, error) {
	if _, err := s.Load(ctx, id); err != nil {
		return nil, err
	}
	d.ID = id
	return s.Save(ctx, d, userID)
}

func (s *TemplateService) Load(ctx context.Context, id string) (*models.Template, error) {
	t, err := s.repo.Load(ctx, id)
	if err != nil {
		s.logger.Error("failed to load template", zap.String("template_id", id), zap.Error(err))
		return nil, persistence("load", err)
	}
	if t == nil {
		return nil, ErrNotFound
	}
	return t, nil
}

// LoadDraft loads a template and decodes its grid for editing.
func (s *TemplateService) LoadDraft(ctx context.Context, id string) (*models.Template, *layout.Draft, error) {
	t, err := s.Load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	d, err := t.Draft()
	if err != nil {
		s.logger.Error("stored template does not decode", zap.String("template_id", id), zap.Error(err))
		return nil, nil, fmt.Errorf("%w: %w", ErrCorrupted, err)
	}
	return t, d, nil
}

func (s *TemplateService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete template", zap.String("template_id", id), zap.Error(err))
		return persistence("delete", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *TemplateService) List(ctx context.Context) ([]models.TemplateSummary, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list templates", zap.Error(err))
		return nil, persistence("list", err)
	}
	return list, nil
}

// Renumber rewrites the template's plot numbers in row-major order and
// returns the changed numbers, old to new.
func (s *TemplateService) Renumber(ctx context.Context, id string) (*models.Template, map[int]int, error) {
	t, d, err := s.LoadDraft(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	changed := d.Grid.Renumber()
	if len(changed) == 0 {
		return t, changed, nil
	}

	saved, err := s.Save(ctx, d, t.CreatedBy)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("template renumbered", zap.String("template_id", id), zap.Int("changed", len(changed)))
	return saved, changed, nil
}

// Export renders the template as a portable YAML document.
func (s *TemplateService) Export(ctx context.Context, id string) ([]byte, error) {
	_, d, err := s.LoadDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	return layout.EncodeYAML(d)
}

// Import saves a YAML layout document as a new template.
func (s *TemplateService) Import(ctx context.Context, data []byte, userID string) (*models.Template, error) {
	d, err := layout.DecodeYAML(data)
	if err != nil {
		return nil, err
	}
	return s.Save(ctx, d, userID)
}
