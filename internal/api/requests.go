package api

import (
	"time"

	"github.com/lalith-99/plotgrid/internal/layout"
)

// layoutRequest is the body for creating or replacing a template or a
// project layout. GridCells may be omitted to start from an all-empty grid.
type layoutRequest struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Location    string                `json:"location"`
	GridSize    gridSizeRequest       `json:"gridSize" binding:"required"`
	GridCells   [][]layout.CellRecord `json:"gridCells"`
}

type gridSizeRequest struct {
	Rows int `json:"rows" binding:"required,min=1,max=50"`
	Cols int `json:"cols" binding:"required,min=1,max=50"`
}

func (r layoutRequest) draft(id string) (*layout.Draft, error) {
	size := layout.GridSize{Rows: r.GridSize.Rows, Cols: r.GridSize.Cols}
	var (
		d   *layout.Draft
		err error
	)
	if len(r.GridCells) == 0 {
		d, err = layout.NewDraft(r.Name, size.Rows, size.Cols)
	} else {
		d, err = layout.Document{Name: r.Name, GridSize: size, GridCells: r.GridCells}.Draft()
	}
	if err != nil {
		return nil, err
	}
	d.ID = id
	d.Description = r.Description
	return d, nil
}

// cellPatchRequest is a partial update of one project cell.
type cellPatchRequest struct {
	Type         *string    `json:"type" binding:"omitempty,celltype"`
	PlotNumber   *int       `json:"plotNumber" binding:"omitempty,min=1"`
	Size         *float64   `json:"size" binding:"omitempty,gt=0"`
	Price        *float64   `json:"price" binding:"omitempty,gte=0"`
	Status       *string    `json:"status" binding:"omitempty,plotstatus"`
	Description  *string    `json:"description"`
	OwnerID      *string    `json:"ownerId"`
	PurchaseDate *time.Time `json:"purchaseDate"`
}

func (r cellPatchRequest) update() layout.CellUpdate {
	u := layout.CellUpdate{
		PlotNumber:   r.PlotNumber,
		Size:         r.Size,
		Price:        r.Price,
		Description:  r.Description,
		OwnerID:      r.OwnerID,
		PurchaseDate: r.PurchaseDate,
	}
	if r.Type != nil {
		t := layout.CellType(*r.Type)
		u.Type = &t
	}
	if r.Status != nil {
		s := layout.PlotStatus(*r.Status)
		u.Status = &s
	}
	return u
}

type createProjectRequest struct {
	TemplateID  string `json:"templateId" binding:"required"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// summaryResponse is returned by the summary routes.
type summaryResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	GridSize  layout.GridSize  `json:"gridSize"`
	Summary   layout.Summary   `json:"summary"`
	PlotStats layout.PlotStats `json:"plotStats"`
	Validity  layout.Result    `json:"validity"`
}

func summarize(d *layout.Draft) summaryResponse {
	return summaryResponse{
		ID:        d.ID,
		Name:      d.Name,
		GridSize:  d.Grid.Size(),
		Summary:   d.Summary(),
		PlotStats: d.Grid.PlotStats(),
		Validity:  d.Validate(),
	}
}
