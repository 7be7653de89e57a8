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

type projectDoc struct {
	Name        string          `firestore:"name"`
	Description string          `firestore:"description"`
	Location    string          `firestore:"location"`
	TemplateID  string          `firestore:"templateId"`
	GridSize    layout.GridSize `firestore:"gridSize"`
	GridCells   []cellRow       `firestore:"gridCells,omitempty"`
	CreatedBy   string          `firestore:"createdBy"`
	CreatedAt   time.Time       `firestore:"createdAt"`
	UpdatedAt   time.Time       `firestore:"updatedAt"`
}

func (d *projectDoc) stamps() (string, time.Time) { return d.CreatedBy, d.CreatedAt }

func (d *projectDoc) setStamps(by string, created, updated time.Time) {
	d.CreatedBy, d.CreatedAt, d.UpdatedAt = by, created, updated
}

func (d *projectDoc) blank() stamped { return &projectDoc{} }

func (d *projectDoc) model(id string) *models.Project {
	return &models.Project{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Location:    d.Location,
		TemplateID:  d.TemplateID,
		GridSize:    d.GridSize,
		GridCells:   unwrapRows(d.GridCells),
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type ProjectStore struct {
	client *gfs.Client
	now    func() time.Time
}

func NewProjectStore(client *gfs.Client) *ProjectStore {
	return &ProjectStore{client: client, now: time.Now}
}

func (s *ProjectStore) col() *gfs.CollectionRef {
	return s.client.Collection(ProjectsCollection)
}

func (s *ProjectStore) Save(ctx context.Context, p *models.Project) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	doc := &projectDoc{
		Name:        p.Name,
		Description: p.Description,
		Location:    p.Location,
		TemplateID:  p.TemplateID,
		GridSize:    p.GridSize,
		GridCells:   wrapRows(p.GridCells),
		CreatedBy:   p.CreatedBy,
	}
	if err := upsert(ctx, s.client, s.col().Doc(p.ID), doc, s.now().UTC()); err != nil {
		return "", fmt.Errorf("upsert project: %w", err)
	}
	p.CreatedBy, p.CreatedAt, p.UpdatedAt = doc.CreatedBy, doc.CreatedAt, doc.UpdatedAt
	return p.ID, nil
}

func (s *ProjectStore) Load(ctx context.Context, id string) (*models.Project, error) {
	snap, err := s.col().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	var doc projectDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode project %s: %w", id, err)
	}
	return doc.model(snap.Ref.ID), nil
}

func (s *ProjectStore) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := remove(ctx, s.client, s.col().Doc(id))
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	return deleted, nil
}

func (s *ProjectStore) List(ctx context.Context) ([]models.ProjectSummary, error) {
	q := s.col().
		Select("name", "description", "location", "templateId", "gridSize", "createdBy", "createdAt", "updatedAt").
		OrderBy("createdAt", gfs.Desc)

	projects := make([]models.ProjectSummary, 0)
	err := each(ctx, q, func(snap *gfs.DocumentSnapshot) error {
		var doc projectDoc
		if err := snap.DataTo(&doc); err != nil {
			return fmt.Errorf("decode project %s: %w", snap.Ref.ID, err)
		}
		projects = append(projects, doc.model(snap.Ref.ID).Summary())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}
