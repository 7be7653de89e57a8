package layout

// Summary holds the headline cell counts of a grid.
// Plots + Roads + Amenities + Empty == Total == rows*cols.
type Summary struct {
	Plots     int `json:"plots"`
	Roads     int `json:"roads"`
	Amenities int `json:"amenities"`
	Empty     int `json:"empty"`
	Total     int `json:"total"`
}

// PlotStats breaks the plots of a grid down by sales status.
type PlotStats struct {
	Available int     `json:"available" yaml:"available"`
	Reserved  int     `json:"reserved" yaml:"reserved"`
	Sold      int     `json:"sold" yaml:"sold"`
	TotalArea float64 `json:"totalArea" yaml:"totalArea"`
	ListValue float64 `json:"listValue" yaml:"listValue"`
	SoldValue float64 `json:"soldValue" yaml:"soldValue"`
}

func (g *Grid) CountCellsOfType(t CellType) int {
	n := 0
	g.each(func(c *Cell) {
		if c.Type() == t {
			n++
		}
	})
	return n
}

// Summary is recomputed on every call.
func (g *Grid) Summary() Summary {
	var s Summary
	g.each(func(c *Cell) {
		switch c.Type() {
		case TypePlot:
			s.Plots++
		case TypeRoad:
			s.Roads++
		case TypeAmenity:
			s.Amenities++
		default:
			s.Empty++
		}
	})
	s.Total = g.rows * g.cols
	return s
}

func (g *Grid) PlotStats() PlotStats {
	var st PlotStats
	g.each(func(c *Cell) {
		p, ok := c.Content.(Plot)
		if !ok {
			return
		}
		st.TotalArea += p.Size
		st.ListValue += p.Price
		switch p.Status {
		case StatusAvailable:
			st.Available++
		case StatusReserved:
			st.Reserved++
		case StatusSold:
			st.Sold++
			st.SoldValue += p.Price
		}
	})
	return st
}
