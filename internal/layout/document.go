package layout

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is the portable form of a draft used for import and export.
type Document struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	GridSize    GridSize       `json:"gridSize" yaml:"gridSize"`
	GridCells   [][]CellRecord `json:"gridCells" yaml:"gridCells"`
}

func DocumentOf(d *Draft) Document {
	size, cells := Encode(d.Grid)
	return Document{
		Name:        d.Name,
		Description: d.Description,
		GridSize:    size,
		GridCells:   cells,
	}
}

// Draft decodes the document's grid. The name is not validated here.
func (doc Document) Draft() (*Draft, error) {
	g, err := Decode(doc.GridSize, doc.GridCells)
	if err != nil {
		return nil, err
	}
	return &Draft{Name: doc.Name, Description: doc.Description, Grid: g}, nil
}

func EncodeYAML(d *Draft) ([]byte, error) {
	out, err := yaml.Marshal(DocumentOf(d))
	if err != nil {
		return nil, fmt.Errorf("marshal layout yaml: %w", err)
	}
	return out, nil
}

func DecodeYAML(data []byte) (*Draft, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal layout yaml: %w", err)
	}
	return doc.Draft()
}

func DecodeJSON(data []byte) (*Draft, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal layout json: %w", err)
	}
	return doc.Draft()
}
