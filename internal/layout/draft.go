package layout

// Draft is an editing session over one template or project layout. The caller
// owns it; nothing in this package keeps a reference. ID is empty until the
// draft has been saved once.
type Draft struct {
	ID          string
	Name        string
	Description string
	Grid        *Grid
}

func NewDraft(name string, rows, cols int) (*Draft, error) {
	g, err := New(rows, cols)
	if err != nil {
		return nil, err
	}
	return &Draft{Name: name, Grid: g}, nil
}

// Resize discards every cell and starts over at the new dimensions.
func (d *Draft) Resize(rows, cols int) error {
	return d.Grid.Initialize(rows, cols)
}

func (d *Draft) Update(row, col int, u CellUpdate) error {
	return d.Grid.UpdateCell(row, col, u)
}

func (d *Draft) Summary() Summary {
	return d.Grid.Summary()
}

func (d *Draft) Validate() Result {
	return Validate(d.Name, d.Grid)
}
