package layout

import (
	"fmt"
	"time"
)

// GridSize is the serialized dimension pair of a grid.
type GridSize struct {
	Rows int `json:"rows" yaml:"rows" firestore:"rows"`
	Cols int `json:"cols" yaml:"cols" firestore:"cols"`
}

// CellRecord is the document-store shape of one cell. Only the fields that
// belong to Type are set.
type CellRecord struct {
	Row          int         `json:"row" yaml:"row" firestore:"row"`
	Col          int         `json:"col" yaml:"col" firestore:"col"`
	Type         CellType    `json:"type" yaml:"type" firestore:"type"`
	PlotNumber   *int        `json:"plotNumber,omitempty" yaml:"plotNumber,omitempty" firestore:"plotNumber,omitempty"`
	Size         *float64    `json:"size,omitempty" yaml:"size,omitempty" firestore:"size,omitempty"`
	Price        *float64    `json:"price,omitempty" yaml:"price,omitempty" firestore:"price,omitempty"`
	Status       *PlotStatus `json:"status,omitempty" yaml:"status,omitempty" firestore:"status,omitempty"`
	Description  *string     `json:"description,omitempty" yaml:"description,omitempty" firestore:"description,omitempty"`
	OwnerID      *string     `json:"ownerId,omitempty" yaml:"ownerId,omitempty" firestore:"ownerId,omitempty"`
	PurchaseDate *time.Time  `json:"purchaseDate,omitempty" yaml:"purchaseDate,omitempty" firestore:"purchaseDate,omitempty"`
}

// Encode flattens g into its serialized size and row-major cell records.
func Encode(g *Grid) (GridSize, [][]CellRecord) {
	out := make([][]CellRecord, g.rows)
	for r := range g.cells {
		out[r] = make([]CellRecord, g.cols)
		for c := range g.cells[r] {
			out[r][c] = recordOf(g.cells[r][c])
		}
	}
	return g.Size(), out
}

func recordOf(c Cell) CellRecord {
	rec := CellRecord{Row: c.Row, Col: c.Col, Type: c.Type()}
	switch v := c.Content.(type) {
	case Plot:
		n, size, price, status := v.Number, v.Size, v.Price, v.Status
		rec.PlotNumber, rec.Size, rec.Price, rec.Status = &n, &size, &price, &status
		if v.Description != "" {
			d := v.Description
			rec.Description = &d
		}
		if v.OwnerID != "" {
			o := v.OwnerID
			rec.OwnerID = &o
		}
		if v.PurchaseDate != nil {
			t := *v.PurchaseDate
			rec.PurchaseDate = &t
		}
	case Amenity:
		if v.Description != "" {
			d := v.Description
			rec.Description = &d
		}
	}
	return rec
}

// Decode rebuilds a grid from its serialized form. It rejects mismatched
// lengths, misplaced cells, unknown types, attributes that do not belong to
// a cell's type and duplicate plot numbers. Plots stored without a number
// are numbered after the numbered ones, in row-major order.
func Decode(size GridSize, records [][]CellRecord) (*Grid, error) {
	g, err := New(size.Rows, size.Cols)
	if err != nil {
		return nil, err
	}
	if len(records) != size.Rows {
		return nil, fmt.Errorf("%w: %d rows of cells for %d rows", ErrMalformedGrid, len(records), size.Rows)
	}

	seen := make(map[int]bool)
	var unnumbered [][2]int
	for r, row := range records {
		if len(row) != size.Cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedGrid, r, len(row), size.Cols)
		}
		for c, rec := range row {
			if rec.Row != r || rec.Col != c {
				return nil, fmt.Errorf("%w: cell at (%d,%d) claims (%d,%d)", ErrMalformedGrid, r, c, rec.Row, rec.Col)
			}
			content, err := contentOf(rec)
			if err != nil {
				return nil, fmt.Errorf("cell (%d,%d): %w", r, c, err)
			}
			if p, ok := content.(Plot); ok {
				if p.Number == 0 {
					unnumbered = append(unnumbered, [2]int{r, c})
				} else if seen[p.Number] {
					return nil, fmt.Errorf("cell (%d,%d): %w: %d", r, c, ErrDuplicatePlotNumber, p.Number)
				} else {
					seen[p.Number] = true
				}
			}
			g.cells[r][c].Content = content
		}
	}

	for _, pos := range unnumbered {
		p := g.cells[pos[0]][pos[1]].Content.(Plot)
		p.Number = g.nextPlotNumber()
		g.cells[pos[0]][pos[1]].Content = p
	}
	return g, nil
}

func contentOf(rec CellRecord) (Content, error) {
	t, err := ParseCellType(string(rec.Type))
	if err != nil {
		return nil, err
	}
	plotOnly := rec.PlotNumber != nil || rec.Size != nil || rec.Price != nil ||
		rec.Status != nil || rec.OwnerID != nil || rec.PurchaseDate != nil

	switch t {
	case TypeEmpty, TypeRoad:
		if plotOnly || rec.Description != nil {
			return nil, fmt.Errorf("%w: %s cells carry no attributes", ErrInvalidCellAttribute, t)
		}
		if t == TypeRoad {
			return Road{}, nil
		}
		return Empty{}, nil

	case TypeAmenity:
		if plotOnly {
			return nil, fmt.Errorf("%w: amenity cells carry only a description", ErrInvalidCellAttribute)
		}
		a := Amenity{}
		if rec.Description != nil {
			a.Description = *rec.Description
		}
		return a, nil
	}

	if rec.Size == nil || rec.Price == nil {
		return nil, ErrMissingPlotAttributes
	}
	p := Plot{Size: *rec.Size, Price: *rec.Price, Status: StatusAvailable}
	if rec.PlotNumber != nil {
		if *rec.PlotNumber <= 0 {
			return nil, fmt.Errorf("%w: plot number must be positive", ErrInvalidCellAttribute)
		}
		p.Number = *rec.PlotNumber
	}
	if rec.Status != nil {
		st, err := ParsePlotStatus(string(*rec.Status))
		if err != nil {
			return nil, err
		}
		p.Status = st
	}
	if rec.Description != nil {
		p.Description = *rec.Description
	}
	if rec.OwnerID != nil {
		p.OwnerID = *rec.OwnerID
	}
	if rec.PurchaseDate != nil {
		d := *rec.PurchaseDate
		p.PurchaseDate = &d
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Record returns the serialized form of a single cell.
func (c Cell) Record() CellRecord {
	return recordOf(c)
}
