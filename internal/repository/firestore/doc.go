// Package firestore stores templates and projects as Firestore documents,
// one collection each, keyed by id.
//
// Firestore rejects arrays nested directly in arrays, so the row-major cell
// matrix is written as a list of {cells: [...]} maps.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	gfs "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lalith-99/plotgrid/internal/layout"
)

const (
	TemplatesCollection = "templates"
	ProjectsCollection  = "projects"
)

// cellRow wraps one grid row.
//
// Why not store [][]CellRecord directly? Firestore rejects an array whose
// elements are arrays, so a grid cannot be written as-is. Wrapping each row
// in a map ({cells: [...]}) keeps the row-major order and the same cell
// records the other backends store, at the cost of one extra level when
// reading the document by hand.
type cellRow struct {
	Cells []layout.CellRecord `firestore:"cells"`
}

func wrapRows(cells [][]layout.CellRecord) []cellRow {
	rows := make([]cellRow, len(cells))
	for i, r := range cells {
		rows[i] = cellRow{Cells: r}
	}
	return rows
}

func unwrapRows(rows []cellRow) [][]layout.CellRecord {
	cells := make([][]layout.CellRecord, len(rows))
	for i, r := range rows {
		cells[i] = r.Cells
	}
	return cells
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// stamped is implemented by the document types so upsert can carry the
// first write's creator and creation time forward.
type stamped interface {
	stamps() (createdBy string, createdAt time.Time)
	setStamps(createdBy string, createdAt, updatedAt time.Time)
	blank() stamped
}

// upsert writes doc at ref inside a transaction. When a document already
// exists its createdBy and createdAt win over the ones in doc.
func upsert(ctx context.Context, client *gfs.Client, ref *gfs.DocumentRef, doc stamped, now time.Time) error {
	return client.RunTransaction(ctx, func(ctx context.Context, tx *gfs.Transaction) error {
		createdBy, _ := doc.stamps()
		createdAt := now

		snap, err := tx.Get(ref)
		switch {
		case err == nil:
			prev := doc.blank()
			if err := snap.DataTo(prev); err != nil {
				return fmt.Errorf("decode existing %s: %w", ref.ID, err)
			}
			createdBy, createdAt = prev.stamps()
		case !isNotFound(err):
			return err
		}

		doc.setStamps(createdBy, createdAt, now)
		return tx.Set(ref, doc)
	})
}

// remove deletes ref and reports whether it existed.
func remove(ctx context.Context, client *gfs.Client, ref *gfs.DocumentRef) (bool, error) {
	existed := false
	err := client.RunTransaction(ctx, func(ctx context.Context, tx *gfs.Transaction) error {
		existed = false
		if _, err := tx.Get(ref); err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		existed = true
		return tx.Delete(ref)
	})
	return existed, err
}

// each runs fn over every document of q.
func each(ctx context.Context, q gfs.Query, fn func(*gfs.DocumentSnapshot) error) error {
	it := q.Documents(ctx)
	defer it.Stop()
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(snap); err != nil {
			return err
		}
	}
}
