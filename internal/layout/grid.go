// Package layout models a site plan as a rows x cols grid of typed cells
// (empty, plot, road, amenity) together with the numbering, counting and
// validation rules a plan must satisfy before it is saved.
package layout

import "fmt"

const (
	MinDimension = 1
	MaxDimension = 50
)

// Grid is a rectangular matrix of cells. The zero value is not usable; build
// one with New. A Grid is not safe for concurrent mutation: it belongs to the
// single editing session holding it.
type Grid struct {
	rows  int
	cols  int
	cells [][]Cell
}

// New returns a rows x cols grid of empty cells.
func New(rows, cols int) (*Grid, error) {
	g := &Grid{}
	if err := g.Initialize(rows, cols); err != nil {
		return nil, err
	}
	return g, nil
}

// CheckDimensions reports ErrDimensionOutOfRange unless both values lie in
// [MinDimension, MaxDimension].
func CheckDimensions(rows, cols int) error {
	if rows < MinDimension || rows > MaxDimension {
		return fmt.Errorf("%w: rows=%d, want %d..%d", ErrDimensionOutOfRange, rows, MinDimension, MaxDimension)
	}
	if cols < MinDimension || cols > MaxDimension {
		return fmt.Errorf("%w: cols=%d, want %d..%d", ErrDimensionOutOfRange, cols, MinDimension, MaxDimension)
	}
	return nil
}

// ClampDimension forces n into [MinDimension, MaxDimension], for input
// boundaries that prefer clamping over rejecting.
func ClampDimension(n int) int {
	if n < MinDimension {
		return MinDimension
	}
	if n > MaxDimension {
		return MaxDimension
	}
	return n
}

// Initialize rebuilds the grid as rows x cols empty cells. Existing content is
// discarded, including cells inside the overlapping region. On error the grid
// is left unchanged.
func (g *Grid) Initialize(rows, cols int) error {
	if err := CheckDimensions(rows, cols); err != nil {
		return err
	}
	cells := make([][]Cell, rows)
	for r := range cells {
		cells[r] = make([]Cell, cols)
		for c := range cells[r] {
			cells[r][c] = Cell{Row: r, Col: c, Content: Empty{}}
		}
	}
	g.rows, g.cols, g.cells = rows, cols, cells
	return nil
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

func (g *Grid) Size() GridSize { return GridSize{Rows: g.rows, Cols: g.cols} }

func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

func (g *Grid) checkBounds(row, col int) error {
	if !g.InBounds(row, col) {
		return fmt.Errorf("%w: (%d,%d) in %dx%d grid", ErrOutOfBounds, row, col, g.rows, g.cols)
	}
	return nil
}

// At returns a copy of the cell at (row, col).
func (g *Grid) At(row, col int) (Cell, error) {
	if err := g.checkBounds(row, col); err != nil {
		return Cell{}, err
	}
	return g.cells[row][col].clone(), nil
}

// UpdateCell shallow-merges u into the cell at (row, col). A cell that becomes
// a plot without an explicit number gets the next free number. A failed
// update leaves the grid untouched.
func (g *Grid) UpdateCell(row, col int, u CellUpdate) error {
	if err := g.checkBounds(row, col); err != nil {
		return err
	}
	content, err := merge(g.cells[row][col], u)
	if err != nil {
		return err
	}
	return g.place(row, col, content)
}

// Set replaces the content at (row, col). A plot with an empty Status is
// stored as available and a plot with Number 0 gets the next free number.
func (g *Grid) Set(row, col int, content Content) error {
	if err := g.checkBounds(row, col); err != nil {
		return err
	}
	if content == nil {
		content = Empty{}
	}
	if p, ok := content.(Plot); ok {
		p = p.clone()
		if p.Status == "" {
			p.Status = StatusAvailable
		}
		if err := p.validate(); err != nil {
			return err
		}
		content = p
	}
	return g.place(row, col, content)
}

func (g *Grid) place(row, col int, content Content) error {
	if p, ok := content.(Plot); ok {
		if p.Number == 0 {
			p.Number = g.nextPlotNumber()
		} else if g.numberTaken(p.Number, row, col) {
			return fmt.Errorf("%w: %d", ErrDuplicatePlotNumber, p.Number)
		}
		content = p
	}
	g.cells[row][col].Content = content
	return nil
}

// Cells returns a deep copy of the matrix, rows outer.
func (g *Grid) Cells() [][]Cell {
	out := make([][]Cell, g.rows)
	for r := range g.cells {
		out[r] = make([]Cell, g.cols)
		for c := range g.cells[r] {
			out[r][c] = g.cells[r][c].clone()
		}
	}
	return out
}

func (g *Grid) Clone() *Grid {
	return &Grid{rows: g.rows, cols: g.cols, cells: g.Cells()}
}

// each visits every cell in row-major order.
func (g *Grid) each(fn func(c *Cell)) {
	for r := range g.cells {
		for c := range g.cells[r] {
			fn(&g.cells[r][c])
		}
	}
}
