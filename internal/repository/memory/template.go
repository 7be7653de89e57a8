package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/plotgrid/internal/models"
)

type TemplateStore struct {
	t *table[models.Template]
}

func NewTemplateStore() *TemplateStore {
	return &TemplateStore{t: newTable[models.Template]()}
}

func (s *TemplateStore) Save(_ context.Context, tpl *models.Template) (string, error) {
	s.t.mu.Lock()
	defer s.t.mu.Unlock()

	now := s.t.now()
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	if prev, ok := s.t.rows[tpl.ID]; ok {
		tpl.CreatedBy = prev.CreatedBy
		tpl.CreatedAt = prev.CreatedAt
	} else {
		tpl.CreatedAt = now
	}
	tpl.UpdatedAt = now

	stored := *tpl
	stored.GridCells = copyCells(tpl.GridCells)
	s.t.rows[tpl.ID] = stored
	return tpl.ID, nil
}

func (s *TemplateStore) Load(_ context.Context, id string) (*models.Template, error) {
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

func (s *TemplateStore) Delete(_ context.Context, id string) (bool, error) {
	return s.t.delete(id), nil
}

func (s *TemplateStore) List(_ context.Context) ([]models.TemplateSummary, error) {
	s.t.mu.RLock()
	out := make([]models.TemplateSummary, 0, len(s.t.rows))
	for _, tpl := range s.t.rows {
		out = append(out, tpl.Summary())
	}
	s.t.mu.RUnlock()

	newestFirst(out,
		func(t models.TemplateSummary) time.Time { return t.CreatedAt },
		func(t models.TemplateSummary) string { return t.ID },
	)
	return out, nil
}
