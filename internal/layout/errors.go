package layout

import "errors"

var (
	ErrDimensionOutOfRange   = errors.New("grid dimension out of range")
	ErrOutOfBounds           = errors.New("cell position out of bounds")
	ErrMissingPlotAttributes = errors.New("plot requires size and price")
	ErrInvalidCellAttribute  = errors.New("attribute not valid for cell")
	ErrDuplicatePlotNumber   = errors.New("duplicate plot number")
	ErrUnknownCellType       = errors.New("unknown cell type")
	ErrUnknownPlotStatus     = errors.New("unknown plot status")
	ErrMalformedGrid         = errors.New("malformed grid")
)
