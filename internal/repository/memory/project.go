package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/plotgrid/internal/models"
)

type ProjectStore struct {
	t *table[models.Project]
}

func NewProjectStore() *ProjectStore {
	return &ProjectStore{t: newTable[models.Project]()}
}

func (s *ProjectStore) Save(_ context.Context, p *models.Project) (string, error) {
	s.t.mu.Lock()
	defer s.t.mu.Unlock()

	now := s.t.now()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if prev, ok := s.t.rows[p.ID]; ok {
		p.CreatedBy = prev.CreatedBy
		p.CreatedAt = prev.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	stored := *p
	stored.GridCells = copyCells(p.GridCells)
	s.t.rows[p.ID] = stored
	return p.ID, nil
}

func (s *ProjectStore) Load(_ context.Context, id string) (*models.Project, error) {
	s.t.mu.RLock()
	defer s.t.mu.RUnlock()

	stored, ok := s.t.rows[id]
	if !ok {
		return nil, nil
	}
	out := stored
	out.GridCells = copyCells(stored.GridCells)
	return &out, nil
}

func (s *ProjectStore) Delete(_ context.Context, id string) (bool, error) {
	return s.t.delete(id), nil
}

func (s *ProjectStore) List(_ context.Context) ([]models.ProjectSummary, error) {
	s.t.mu.RLock()
	out := make([]models.ProjectSummary, 0, len(s.t.rows))
	for _, p := range s.t.rows {
		out = append(out, p.Summary())
	}
	s.t.mu.RUnlock()

	newestFirst(out,
		func(p models.ProjectSummary) time.Time { return p.CreatedAt },
		func(p models.ProjectSummary) string { return p.ID },
	)
	return out, nil
}
