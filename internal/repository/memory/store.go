// Package memory holds map-backed repositories for local runs and handler
// tests. Records are copied on the way in and out, so callers never share
// state with the store.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/lalith-99/plotgrid/internal/layout"
)

// clock is swapped in tests that need distinct timestamps.
type clock func() time.Time

type table[T any] struct {
	mu   sync.RWMutex
	rows map[string]T
	now  clock
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T), now: func() time.Time { return time.Now().UTC() }}
}

func (t *table[T]) delete(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// newestFirst sorts by creation time descending, then by id so equal
// timestamps still list deterministically.
func newestFirst[S any](items []S, createdAt func(S) time.Time, id func(S) string) {
	sort.Slice(items, func(i, j int) bool {
		a, b := createdAt(items[i]), createdAt(items[j])
		if !a.Equal(b) {
			return a.After(b)
		}
		return id(items[i]) < id(items[j])
	})
}

func copyCells(cells [][]layout.CellRecord) [][]layout.CellRecord {
	if cells == nil {
		return nil
	}
	out := make([][]layout.CellRecord, len(cells))
	for r, row := range cells {
		out[r] = make([]layout.CellRecord, len(row))
		for c, rec := range row {
			out[r][c] = copyRecord(rec)
		}
	}
	return out
}

func copyRecord(rec layout.CellRecord) layout.CellRecord {
	rec.PlotNumber = clonePtr(rec.PlotNumber)
	rec.Size = clonePtr(rec.Size)
	rec.Price = clonePtr(rec.Price)
	rec.Status = clonePtr(rec.Status)
	rec.Description = clonePtr(rec.Description)
	rec.OwnerID = clonePtr(rec.OwnerID)
	rec.PurchaseDate = clonePtr(rec.PurchaseDate)
	return rec
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
