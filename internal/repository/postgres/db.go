package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lalith-99/plotgrid/internal/layout"
)

// DBTX is the slice of *pgxpool.Pool the stores use. Tests pass a pgxmock
// pool instead.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// grid_cells is a jsonb column holding the row-major [][]CellRecord.
func marshalCells(cells [][]layout.CellRecord) ([]byte, error) {
	b, err := json.Marshal(cells)
	if err != nil {
		return nil, fmt.Errorf("marshal grid cells: %w", err)
	}
	return b, nil
}

func unmarshalCells(b []byte) ([][]layout.CellRecord, error) {
	var cells [][]layout.CellRecord
	if err := json.Unmarshal(b, &cells); err != nil {
		return nil, fmt.Errorf("unmarshal grid cells: %w", err)
	}
	return cells, nil
}
