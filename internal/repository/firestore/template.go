package firestore

import (
	"context"
	"fmt"
	"time"

	gfs "cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"github.com/lalith-99/plotgrid/internal/layout"
	"github.com/lalith-99/plotgrid/internal/models"
)

type templateDoc struct {
	Name        string          `firestore:"name"`
	Description string          `firestore:"description"`
	GridSize    layout.GridSize `firestore:"gridSize"`
	GridCells   []cellRow       `firestore:"gridCells,omitempty"`
	CreatedBy   string          `firestore:"createdBy"`
	CreatedAt   time.Time       `firestore:"createdAt"`
	UpdatedAt   time.Time       `firestore:"updatedAt"`
}

func (d *templateDoc) stamps() (string, time.Time) { return d.CreatedBy, d.CreatedAt }

func (d *templateDoc) setStamps(by string, created, updated time.Time) {
	d.CreatedBy, d.CreatedAt, d.UpdatedAt = by, created, updated
}

func (d *templateDoc) blank() stamped { return &templateDoc{} }

func (d *templateDoc) model(id string) *models.Template {
	return &models.Template{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		GridSize:    d.GridSize,
		GridCells:   unwrapRows(d.GridCells),
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type TemplateStore struct {
	client *gfs.Client
	now    func() time.Time
}

func NewTemplateStore(client *gfs.Client) *TemplateStore {
	return &TemplateStore{client: client, now: time.Now}
}

func (s *TemplateStore) col() *gfs.CollectionRef {
	return s.client.Collection(TemplatesCollection)
}

func (s *TemplateStore) Save(ctx context.Context, t *models.Template) (string, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	doc := &templateDoc{
		Name:        t.Name,
		Description: t.Description,
		GridSize:    t.GridSize,
		GridCells:   wrapRows(t.GridCells),
		CreatedBy:   t.CreatedBy,
	}
	if err := upsert(ctx, s.client, s.col().Doc(t.ID), doc, s.now().UTC()); err != nil {
		return "", fmt.Errorf("upsert template: %w", err)
	}
	t.CreatedBy, t.CreatedAt, t.UpdatedAt = doc.CreatedBy, doc.CreatedAt, doc.UpdatedAt
	return t.ID, nil
}

func (s *TemplateStore) Load(ctx context.Context, id string) (*models.Template, error) {
	snap, err := s.col().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	var doc templateDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode template %s: %w", id, err)
	}
	return doc.model(snap.Ref.ID), nil
}

func (s *TemplateStore) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := remove(ctx, s.client, s.col().Doc(id))
	if err != nil {
		return false, fmt.Errorf("delete template: %w", err)
	}
	return deleted, nil
}

func (s *TemplateStore) List(ctx context.Context) ([]models.TemplateSummary, error) {
	q := s.col().
		Select("name", "description", "gridSize", "createdBy", "createdAt", "updatedAt").
		OrderBy("createdAt", gfs.Desc)

	templates := make([]models.TemplateSummary, 0)
	err := each(ctx, q, func(snap *gfs.DocumentSnapshot) error {
		var doc templateDoc
		if err := snap.DataTo(&doc); err != nil {
			return fmt.Errorf("decode template %s: %w", snap.Ref.ID, err)
		}
		templates = append(templates, doc.model(snap.Ref.ID).Summary())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}
