package layout

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// CellType is the discriminator stored with every serialized cell.
type CellType string

const (
	TypeEmpty   CellType = "empty"
	TypePlot    CellType = "plot"
	TypeRoad    CellType = "road"
	TypeAmenity CellType = "amenity"
)

func (t CellType) String() string { return string(t) }

func (t CellType) Valid() bool {
	switch t {
	case TypeEmpty, TypePlot, TypeRoad, TypeAmenity:
		return true
	}
	return false
}

// ParseCellType accepts any casing and surrounding whitespace.
func ParseCellType(s string) (CellType, error) {
	t := CellType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCellType, s)
	}
	return t, nil
}

// PlotStatus is the sales state of a plot.
type PlotStatus string

const (
	StatusAvailable PlotStatus = "available"
	StatusReserved  PlotStatus = "reserved"
	StatusSold      PlotStatus = "sold"
)

func (s PlotStatus) String() string { return string(s) }

func (s PlotStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusSold:
		return true
	}
	return false
}

func ParsePlotStatus(s string) (PlotStatus, error) {
	st := PlotStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlotStatus, s)
	}
	return st, nil
}

// Content is whatever occupies a cell. The implementations in this package
// are the only ones: Empty, Road, Plot and Amenity.
type Content interface {
	Type() CellType
	content()
}

type Empty struct{}

type Road struct{}

// Amenity is a non-sellable feature such as a park or a clubhouse.
type Amenity struct {
	Description string
}

// Plot is a sellable unit of land. Size is in square feet.
type Plot struct {
	Number       int
	Size         float64
	Price        float64
	Status       PlotStatus
	Description  string
	OwnerID      string
	PurchaseDate *time.Time
}

func (Empty) Type() CellType   { return TypeEmpty }
func (Road) Type() CellType    { return TypeRoad }
func (Amenity) Type() CellType { return TypeAmenity }
func (Plot) Type() CellType    { return TypePlot }

func (Empty) content()   {}
func (Road) content()    {}
func (Amenity) content() {}
func (Plot) content()    {}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (p Plot) validate() error {
	if !finite(p.Size) || p.Size <= 0 {
		return fmt.Errorf("%w: plot size must be a positive number", ErrInvalidCellAttribute)
	}
	if !finite(p.Price) || p.Price < 0 {
		return fmt.Errorf("%w: plot price must be a non-negative number", ErrInvalidCellAttribute)
	}
	if p.Number < 0 || p.Number > MaxPlotNumber {
		return fmt.Errorf("%w: plot number must be between 1 and %d", ErrInvalidCellAttribute, MaxPlotNumber)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPlotStatus, p.Status)
	}
	return nil
}

func (p Plot) clone() Plot {
	if p.PurchaseDate != nil {
		d := *p.PurchaseDate
		p.PurchaseDate = &d
	}
	return p
}

// Cell is one addressable unit of a Grid. Row and Col always match the
// cell's position in the owning grid.
type Cell struct {
	Row     int
	Col     int
	Content Content
}

func (c Cell) Type() CellType {
	if c.Content == nil {
		return TypeEmpty
	}
	return c.Content.Type()
}

func (c Cell) Plot() (Plot, bool) {
	p, ok := c.Content.(Plot)
	return p, ok
}

func (c Cell) Amenity() (Amenity, bool) {
	a, ok := c.Content.(Amenity)
	return a, ok
}

func (c Cell) clone() Cell {
	if p, ok := c.Content.(Plot); ok {
		c.Content = p.clone()
	}
	return c
}

// CellUpdate is a partial cell payload. Nil fields are left as they are.
//
// Changing Type into TypePlot requires Size and Price; Status then defaults
// to available. Changing Type away from TypePlot drops every plot field.
// Plot fields on a non-plot target are rejected.
type CellUpdate struct {
	Type         *CellType
	PlotNumber   *int
	Size         *float64
	Price        *float64
	Status       *PlotStatus
	Description  *string
	OwnerID      *string
	PurchaseDate *time.Time

	ClearPurchaseDate bool
}

func (u CellUpdate) hasPlotFields() bool {
	return u.PlotNumber != nil || u.Size != nil || u.Price != nil || u.Status != nil ||
		u.OwnerID != nil || u.PurchaseDate != nil || u.ClearPurchaseDate
}

// merge computes the content that results from applying u to c. It never
// mutates c. A returned plot with Number 0 still needs a number assigned.
func merge(c Cell, u CellUpdate) (Content, error) {
	target := c.Type()
	if u.Type != nil {
		if !u.Type.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCellType, *u.Type)
		}
		target = *u.Type
	}

	switch target {
	case TypeEmpty, TypeRoad:
		if u.hasPlotFields() || u.Description != nil {
			return nil, fmt.Errorf("%w: %s cells carry no attributes", ErrInvalidCellAttribute, target)
		}
		if target == TypeRoad {
			return Road{}, nil
		}
		return Empty{}, nil

	case TypeAmenity:
		if u.hasPlotFields() {
			return nil, fmt.Errorf("%w: amenity cells carry only a description", ErrInvalidCellAttribute)
		}
		a, _ := c.Amenity()
		if u.Description != nil {
			a.Description = *u.Description
		}
		return a, nil
	}

	p, wasPlot := c.Plot()
	if wasPlot {
		p = p.clone()
	} else {
		if u.Size == nil || u.Price == nil {
			return nil, ErrMissingPlotAttributes
		}
		p = Plot{Status: StatusAvailable}
	}
	if u.PlotNumber != nil {
		if *u.PlotNumber <= 0 {
			return nil, fmt.Errorf("%w: plot number must be positive", ErrInvalidCellAttribute)
		}
		p.Number = *u.PlotNumber
	}
	if u.Size != nil {
		p.Size = *u.Size
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.OwnerID != nil {
		p.OwnerID = *u.OwnerID
	}
	if u.ClearPurchaseDate {
		p.PurchaseDate = nil
	}
	if u.PurchaseDate != nil {
		d := *u.PurchaseDate
		p.PurchaseDate = &d
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}
