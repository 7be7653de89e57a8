package layout

// Plot numbers are handed out once, when a cell becomes a plot, and are not
// touched by later edits: a sold plot keeps the number printed on its sale
// record. Renumber is the explicit way to compact them.

// MaxPlotNumber is the largest plot number accepted: a grid at the maximum
// dimensions holds that many plots.
const MaxPlotNumber = MaxDimension * MaxDimension

// nextPlotNumber is one above the highest number in use. Once that would
// pass MaxPlotNumber it falls back to the lowest free number, which always
// exists because a grid cannot hold more plots than MaxPlotNumber.
func (g *Grid) nextPlotNumber() int {
	used := make(map[int]bool)
	highest := 0
	g.each(func(c *Cell) {
		if p, ok := c.Content.(Plot); ok && p.Number > 0 {
			used[p.Number] = true
			highest = max(highest, p.Number)
		}
	})
	if highest < MaxPlotNumber {
		return highest + 1
	}
	n := 1
	for used[n] {
		n++
	}
	return n
}

func (g *Grid) numberTaken(n, row, col int) bool {
	taken := false
	g.each(func(c *Cell) {
		if c.Row == row && c.Col == col {
			return
		}
		if p, ok := c.Content.(Plot); ok && p.Number == n {
			taken = true
		}
	})
	return taken
}

// Renumber assigns 1..n to the plots in row-major order and returns the
// old -> new mapping for plots whose number changed.
func (g *Grid) Renumber() map[int]int {
	changed := make(map[int]int)
	next := 1
	g.each(func(c *Cell) {
		p, ok := c.Content.(Plot)
		if !ok {
			return
		}
		if p.Number != next {
			changed[p.Number] = next
			p.Number = next
			c.Content = p
		}
		next++
	})
	return changed
}

// Plots returns the plot cells in row-major order.
func (g *Grid) Plots() []Cell {
	var out []Cell
	g.each(func(c *Cell) {
		if c.Type() == TypePlot {
			out = append(out, c.clone())
		}
	})
	return out
}

func (g *Grid) PlotByNumber(n int) (Cell, bool) {
	var (
		found Cell
		ok    bool
	)
	g.each(func(c *Cell) {
		if p, isPlot := c.Content.(Plot); isPlot && p.Number == n && !ok {
			found, ok = c.clone(), true
		}
	})
	return found, ok
}
