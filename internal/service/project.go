package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lalith-99/plotgrid/internal/events"
	"github.com/lalith-99/plotgrid/internal/layout"
	"github.com/lalith-99/plotgrid/internal/models"
	"github.com/lalith-99/plotgrid/internal/repository"
)

type ProjectService struct {
	repo      repository.ProjectRepository
	templates repository.TemplateRepository
	bus       events.Bus
	logger    *zap.Logger
	now       func() time.Time

	// Plot updates are read-modify-write on the whole document; this keeps
	// two updates to the same project in one process from losing each other.
	locks sync.Map // project id -> *sync.Mutex
}

func NewProjectService(repo repository.ProjectRepository, templates repository.TemplateRepository, bus events.Bus, logger *zap.Logger) *ProjectService {
	return &ProjectService{
		repo:      repo,
		templates: templates,
		bus:       bus,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type CreateProjectInput struct {
	TemplateID  string
	Name        string
	Description string
	Location    string
}

// CreateFromTemplate starts a project with a copy of the template's grid.
// Name and description fall back to the template's when blank.
func (s *ProjectService) CreateFromTemplate(ctx context.Context, in CreateProjectInput, userID string) (*models.Project, error) {
	t, err := s.templates.Load(ctx, in.TemplateID)
	if err != nil {
		s.logger.Error("failed to load template", zap.String("template_id", in.TemplateID), zap.Error(err))
		return nil, persistence("load", err)
	}
	if t == nil {
		return nil, ErrNotFound
	}
	d, err := t.Draft()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupted, err)
	}

	d.ID = ""
	if strings.TrimSpace(in.Name) != "" {
		d.Name = in.Name
	}
	if in.Description != "" {
		d.Description = in.Description
	}

	p := &models.Project{
		Location:   in.Location,
		TemplateID: t.ID,
		CreatedBy:  userID,
	}
	return s.save(ctx, p, d)
}

// Save validates d and writes it as project d.ID, creating the project when
// d.ID is empty. Location and template link of an existing project are kept
// unless location is non-empty.
func (s *ProjectService) Save(ctx context.Context, d *layout.Draft, location, userID string) (*models.Project, error) {
	p := &models.Project{ID: d.ID, Location: location, CreatedBy: userID}
	if d.ID != "" {
		existing, err := s.Load(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		p.TemplateID = existing.TemplateID
		if location == "" {
			p.Location = existing.Location
		}
	}
	return s.save(ctx, p, d)
}

func (s *ProjectService) save(ctx context.Context, p *models.Project, d *layout.Draft) (*models.Project, error) {
	if err := d.Validate().Err(); err != nil {
		return nil, err
	}
	p.SetDraft(d)
	id, err := s.repo.Save(ctx, p)
	if err != nil {
		s.logger.Error("failed to save project", zap.String("project_id", p.ID), zap.Error(err))
		return nil, persistence("save", err)
	}
	d.ID = id
	return p, nil
}

func (s *ProjectService) Load(ctx context.Context, id string) (*models.Project, error) {
	p, err := s.repo.Load(ctx, id)
	if err != nil {
		s.logger.Error("failed to load project", zap.String("project_id", id), zap.Error(err))
		return nil, persistence("load", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *ProjectService) LoadDraft(ctx context.Context, id string) (*models.Project, *layout.Draft, error) {
	p, err := s.Load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	d, err := p.Draft()
	if err != nil {
		s.logger.Error("stored project does not decode", zap.String("project_id", id), zap.Error(err))
		return nil, nil, fmt.Errorf("%w: %w", ErrCorrupted, err)
	}
	return p, d, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete project", zap.String("project_id", id), zap.Error(err))
		return persistence("delete", err)
	}
	if !deleted {
		return ErrNotFound
	}
	s.locks.Delete(id)
	return nil
}

func (s *ProjectService) List(ctx context.Context) ([]models.ProjectSummary, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list projects", zap.Error(err))
		return nil, persistence("list", err)
	}
	return list, nil
}

// lock serializes read-modify-write cycles on one project.
//
// Why a lock per project instead of one for the service? Sales on different
// projects never touch the same document, so they should not wait on each
// other. Two edits to the same project, though, both load, merge a cell and
// save the whole grid: without the lock the second save would silently undo
// the first. This only covers one process. Across instances the stores keep
// last-write-wins.
func (s *ProjectService) lock(id string) func() {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// UpdatePlot merges u into the plot at (row, col) of a project and saves it.
//
// A plot that becomes sold without a purchase date is stamped with the
// current time. A plot returned to available loses its owner and purchase
// date. Only plot cells can be changed here, and they stay plots.
func (s *ProjectService) UpdatePlot(ctx context.Context, projectID string, row, col int, u layout.CellUpdate) (layout.Cell, error) {
	unlock := s.lock(projectID)
	defer unlock()

	p, d, err := s.LoadDraft(ctx, projectID)
	if err != nil {
		return layout.Cell{}, err
	}
	cell, err := d.Grid.At(row, col)
	if err != nil {
		return layout.Cell{}, err
	}
	prev, ok := cell.Plot()
	if !ok || (u.Type != nil && *u.Type != layout.TypePlot) {
		return layout.Cell{}, fmt.Errorf("%w: (%d, %d)", ErrNotAPlot, row, col)
	}

	if u.Status != nil {
		switch *u.Status {
		case layout.StatusSold:
			if prev.Status != layout.StatusSold && prev.PurchaseDate == nil && u.PurchaseDate == nil {
				now := s.now()
				u.PurchaseDate = &now
			}
		case layout.StatusAvailable:
			none := ""
			u.OwnerID = &none
			u.PurchaseDate = nil
			u.ClearPurchaseDate = true
		}
	}

	if err := d.Update(row, col, u); err != nil {
		return layout.Cell{}, err
	}
	if _, err := s.save(ctx, p, d); err != nil {
		return layout.Cell{}, err
	}

	updated, _ := d.Grid.At(row, col)
	s.publish(ctx, projectID, updated)
	return updated, nil
}

// publish is best effort: the change is already stored.
func (s *ProjectService) publish(ctx context.Context, projectID string, c layout.Cell) {
	if s.bus == nil {
		return
	}
	ev := models.PlotEvent{
		ProjectID: projectID,
		Row:       c.Row,
		Col:       c.Col,
		Type:      c.Type(),
		At:        s.now(),
	}
	if plot, ok := c.Plot(); ok {
		ev.PlotNumber = plot.Number
		ev.Status = plot.Status
		ev.OwnerID = plot.OwnerID
	}
	if err := s.bus.Publish(ctx, ev); err != nil {
		s.logger.Warn("failed to publish plot event",
			zap.String("project_id", projectID),
			zap.Int("row", c.Row),
			zap.Int("col", c.Col),
			zap.Error(err),
		)
	}
}

// Subscribe streams plot events for an existing project.
func (s *ProjectService) Subscribe(ctx context.Context, projectID string) (<-chan models.PlotEvent, func(), error) {
	if _, err := s.Load(ctx, projectID); err != nil {
		return nil, nil, err
	}
	return s.bus.Subscribe(ctx, projectID)
}
