package layout

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestNew_DimensionInvariant(t *testing.T) {
	for _, dims := range [][2]int{{1, 1}, {1, 50}, {50, 1}, {3, 7}, {50, 50}} {
		g, err := New(dims[0], dims[1])
		require.NoError(t, err)

		cells := g.Cells()
		require.Len(t, cells, dims[0])
		for r, row := range cells {
			require.Len(t, row, dims[1])
			for c, cell := range row {
				assert.Equal(t, r, cell.Row)
				assert.Equal(t, c, cell.Col)
				assert.Equal(t, TypeEmpty, cell.Type())
			}
		}
	}
}

func TestNew_RejectsOutOfRange(t *testing.T) {
	for _, dims := range [][2]int{{51, 10}, {0, 5}, {5, 0}, {10, 51}, {-1, 3}} {
		g, err := New(dims[0], dims[1])
		assert.Nil(t, g)
		assert.ErrorIs(t, err, ErrDimensionOutOfRange, "dims %v", dims)
	}
}

func TestInitialize_RejectLeavesGridUntouched(t *testing.T) {
	g, err := New(2, 2)
	require.NoError(t, err)
	require.NoError(t, g.Set(0, 0, Road{}))

	err = g.Initialize(51, 10)
	require.ErrorIs(t, err, ErrDimensionOutOfRange)

	assert.Equal(t, 2, g.Rows())
	assert.Equal(t, 1, g.CountCellsOfType(TypeRoad))
}

func TestInitialize_ResizeDiscardsContent(t *testing.T) {
	g, err := New(3, 3)
	require.NoError(t, err)
	require.NoError(t, g.Set(0, 0, Plot{Size: 1000, Price: 10}))
	require.NoError(t, g.Set(1, 1, Road{}))
	require.NoError(t, g.Set(2, 2, Amenity{Description: "Park"}))

	require.NoError(t, g.Initialize(4, 2))

	assert.Equal(t, Summary{Empty: 8, Total: 8}, g.Summary())
	cell, err := g.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, TypeEmpty, cell.Type())
}

func TestClampDimension(t *testing.T) {
	assert.Equal(t, 1, ClampDimension(-4))
	assert.Equal(t, 1, ClampDimension(0))
	assert.Equal(t, 17, ClampDimension(17))
	assert.Equal(t, 50, ClampDimension(51))
}

func TestUpdateCell_OutOfBounds(t *testing.T) {
	g, err := New(2, 3)
	require.NoError(t, err)
	road := TypeRoad

	for _, pos := range [][2]int{{2, 0}, {0, 3}, {-1, 0}, {0, -1}} {
		err := g.UpdateCell(pos[0], pos[1], CellUpdate{Type: &road})
		assert.ErrorIs(t, err, ErrOutOfBounds)
	}
	assert.Equal(t, 0, g.CountCellsOfType(TypeRoad))

	_, err = g.At(5, 5)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestUpdateCell_IntoPlotRequiresSizeAndPrice(t *testing.T) {
	g, err := New(2, 2)
	require.NoError(t, err)
	plot := TypePlot

	err = g.UpdateCell(0, 0, CellUpdate{Type: &plot, Size: ptr(1200.0)})
	require.ErrorIs(t, err, ErrMissingPlotAttributes)

	cell, _ := g.At(0, 0)
	assert.Equal(t, TypeEmpty, cell.Type())

	require.NoError(t, g.UpdateCell(0, 0, CellUpdate{Type: &plot, Size: ptr(1200.0), Price: ptr(500000.0)}))
	cell, _ = g.At(0, 0)
	p, ok := cell.Plot()
	require.True(t, ok)
	assert.Equal(t, StatusAvailable, p.Status)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 1200.0, p.Size)
}

func TestUpdateCell_ShallowMergePreservesFields(t *testing.T) {
	g, err := New(1, 2)
	require.NoError(t, err)
	require.NoError(t, g.Set(0, 0, Plot{Size: 900, Price: 250000, Description: "corner"}))

	sold := StatusSold
	require.NoError(t, g.UpdateCell(0, 0, CellUpdate{Status: &sold, OwnerID: ptr("client-7")}))

	cell, _ := g.At(0, 0)
	p, _ := cell.Plot()
	assert.Equal(t, StatusSold, p.Status)
	assert.Equal(t, "client-7", p.OwnerID)
	assert.Equal(t, 900.0, p.Size)
	assert.Equal(t, 250000.0, p.Price)
	assert.Equal(t, "corner", p.Description)
}

func TestUpdateCell_LeavingPlotClearsPlotFields(t *testing.T) {
	g, err := New(1, 1)
	require.NoError(t, err)
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, g.Set(0, 0, Plot{Size: 900, Price: 1, Status: StatusSold, OwnerID: "o", PurchaseDate: &now}))

	amenity := TypeAmenity
	require.NoError(t, g.UpdateCell(0, 0, CellUpdate{Type: &amenity, Description: ptr("Park")}))

	cell, _ := g.At(0, 0)
	a, ok := cell.Amenity()
	require.True(t, ok)
	assert.Equal(t, "Park", a.Description)

	plot := TypePlot
	require.NoError(t, g.UpdateCell(0, 0, CellUpdate{Type: &plot, Size: ptr(10.0), Price: ptr(0.0)}))
	cell, _ = g.At(0, 0)
	p, _ := cell.Plot()
	assert.Empty(t, p.OwnerID)
	assert.Nil(t, p.PurchaseDate)
	assert.Equal(t, StatusAvailable, p.Status)
}

func TestUpdateCell_RejectsAttributesForeignToType(t *testing.T) {
	g, err := New(1, 1)
	require.NoError(t, err)
	road := TypeRoad
	amenity := TypeAmenity

	err = g.UpdateCell(0, 0, CellUpdate{Type: &road, Price: ptr(10.0)})
	assert.ErrorIs(t, err, ErrInvalidCellAttribute)

	err = g.UpdateCell(0, 0, CellUpdate{Type: &amenity, Size: ptr(10.0)})
	assert.ErrorIs(t, err, ErrInvalidCellAttribute)

	err = g.UpdateCell(0, 0, CellUpdate{Description: ptr("nothing here")})
	assert.ErrorIs(t, err, ErrInvalidCellAttribute)

	bogus := CellType("lake")
	err = g.UpdateCell(0, 0, CellUpdate{Type: &bogus})
	assert.ErrorIs(t, err, ErrUnknownCellType)
}

func TestSet_RejectsInvalidPlot(t *testing.T) {
	g, err := New(1, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, g.Set(0, 0, Plot{Size: 0, Price: 1}), ErrInvalidCellAttribute)
	assert.ErrorIs(t, g.Set(0, 0, Plot{Size: 1, Price: -1}), ErrInvalidCellAttribute)
	assert.ErrorIs(t, g.Set(0, 0, Plot{Size: 1, Price: 1, Status: "leased"}), ErrUnknownPlotStatus)
	assert.Equal(t, 0, g.CountCellsOfType(TypePlot))
}

func TestCellsReturnsCopy(t *testing.T) {
	g, err := New(1, 1)
	require.NoError(t, err)
	require.NoError(t, g.Set(0, 0, Road{}))

	cells := g.Cells()
	cells[0][0].Content = Empty{}

	assert.Equal(t, 1, g.CountCellsOfType(TypeRoad))
}

func TestParseEnums(t *testing.T) {
	ct, err := ParseCellType("  Plot ")
	require.NoError(t, err)
	assert.Equal(t, TypePlot, ct)

	_, err = ParseCellType("river")
	assert.ErrorIs(t, err, ErrUnknownCellType)

	st, err := ParsePlotStatus("SOLD")
	require.NoError(t, err)
	assert.Equal(t, StatusSold, st)

	_, err = ParsePlotStatus("")
	assert.ErrorIs(t, err, ErrUnknownPlotStatus)
}

func TestSet_RejectsNonFinitePlotValues(t *testing.T) {
	g, err := New(1, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, g.Set(0, 0, Plot{Size: math.NaN(), Price: 1}), ErrInvalidCellAttribute)
	assert.ErrorIs(t, g.Set(0, 0, Plot{Size: math.Inf(1), Price: 1}), ErrInvalidCellAttribute)
	assert.ErrorIs(t, g.Set(0, 0, Plot{Size: 1, Price: math.NaN()}), ErrInvalidCellAttribute)
	assert.ErrorIs(t, g.Set(0, 0, Plot{Size: 1, Price: math.Inf(1)}), ErrInvalidCellAttribute)
	assert.Equal(t, 0, g.CountCellsOfType(TypePlot))
}

func TestUpdateCell_RejectsNonFiniteAndOversizedValues(t *testing.T) {
	g, err := New(1, 1)
	require.NoError(t, err)
	plot := TypePlot

	err = g.UpdateCell(0, 0, CellUpdate{Type: &plot, Size: ptr(math.NaN()), Price: ptr(1.0)})
	assert.ErrorIs(t, err, ErrInvalidCellAttribute)

	err = g.UpdateCell(0, 0, CellUpdate{Type: &plot, Size: ptr(1.0), Price: ptr(1.0), PlotNumber: ptr(MaxPlotNumber + 1)})
	assert.ErrorIs(t, err, ErrInvalidCellAttribute)
	assert.Equal(t, 0, g.CountCellsOfType(TypePlot))
}
