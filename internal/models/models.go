package models

import (
	"time"

	"github.com/lalith-99/plotgrid/internal/layout"
)

// Template is a reusable named layout not yet bound to a live project.
//
// The grid is embedded in the document, not referenced: GridSize and
// GridCells are exactly what layout.Encode produces, so every backend stores
// the same shape.
type Template struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	GridSize    layout.GridSize       `json:"gridSize"`
	GridCells   [][]layout.CellRecord `json:"gridCells"`
	CreatedBy   string                `json:"createdBy"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// Project is a live development. Its grid has the same shape as a
// template's, with owner fields filled in on sold plots.
type Project struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Location    string                `json:"location,omitempty"`
	TemplateID  string                `json:"templateId,omitempty"`
	GridSize    layout.GridSize       `json:"gridSize"`
	GridCells   [][]layout.CellRecord `json:"gridCells"`
	CreatedBy   string                `json:"createdBy"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// TemplateSummary is a list entry; it leaves out the cells.
type TemplateSummary struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	GridSize    layout.GridSize `json:"gridSize"`
	CreatedBy   string          `json:"createdBy"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type ProjectSummary struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Location    string          `json:"location,omitempty"`
	TemplateID  string          `json:"templateId,omitempty"`
	GridSize    layout.GridSize `json:"gridSize"`
	CreatedBy   string          `json:"createdBy"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func NewTemplate(d *layout.Draft, createdBy string) *Template {
	size, cells := layout.Encode(d.Grid)
	return &Template{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		GridSize:    size,
		GridCells:   cells,
		CreatedBy:   createdBy,
	}
}

// Draft decodes the stored grid into an editable draft.
func (t *Template) Draft() (*layout.Draft, error) {
	g, err := layout.Decode(t.GridSize, t.GridCells)
	if err != nil {
		return nil, err
	}
	return &layout.Draft{ID: t.ID, Name: t.Name, Description: t.Description, Grid: g}, nil
}

func (t *Template) Summary() TemplateSummary {
	return TemplateSummary{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		GridSize:    t.GridSize,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (p *Project) Draft() (*layout.Draft, error) {
	g, err := layout.Decode(p.GridSize, p.GridCells)
	if err != nil {
		return nil, err
	}
	return &layout.Draft{ID: p.ID, Name: p.Name, Description: p.Description, Grid: g}, nil
}

// SetDraft copies the draft's name, description and grid into p.
func (p *Project) SetDraft(d *layout.Draft) {
	p.Name = d.Name
	p.Description = d.Description
	p.GridSize, p.GridCells = layout.Encode(d.Grid)
}

func (p *Project) Summary() ProjectSummary {
	return ProjectSummary{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Location:    p.Location,
		TemplateID:  p.TemplateID,
		GridSize:    p.GridSize,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// PlotEvent is published after a project cell changes.
type PlotEvent struct {
	ProjectID  string            `json:"projectId"`
	Row        int               `json:"row"`
	Col        int               `json:"col"`
	Type       layout.CellType   `json:"type"`
	PlotNumber int               `json:"plotNumber,omitempty"`
	Status     layout.PlotStatus `json:"status,omitempty"`
	OwnerID    string            `json:"ownerId,omitempty"`
	At         time.Time         `json:"at"`
}
