package firestore

import (
	"context"
	"os"
	"testing"

	gfs "cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalith-99/plotgrid/internal/layout"
	"github.com/lalith-99/plotgrid/internal/models"
	"github.com/lalith-99/plotgrid/internal/repository"
)

var (
	_ repository.TemplateRepository = (*TemplateStore)(nil)
	_ repository.ProjectRepository  = (*ProjectStore)(nil)
)

// newClient connects to the emulator named by FIRESTORE_EMULATOR_HOST.
func newClient(t *testing.T) *gfs.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	client, err := gfs.NewClient(ctx, "plotgrid-test-"+uuid.NewString()[:8])
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestWrapRows(t *testing.T) {
	cells := [][]layout.CellRecord{
		{{Row: 0, Col: 0, Type: layout.TypeRoad}, {Row: 0, Col: 1, Type: layout.TypeEmpty}},
		{{Row: 1, Col: 0, Type: layout.TypeEmpty}, {Row: 1, Col: 1, Type: layout.TypeRoad}},
	}
	rows := wrapRows(cells)
	require.Len(t, rows, 2)
	assert.Len(t, rows[1].Cells, 2)
	assert.Equal(t, cells, unwrapRows(rows))
}

func TestTemplateStore_Emulator(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()
	s := NewTemplateStore(client)

	d, err := layout.NewDraft("Emulated", 2, 3)
	require.NoError(t, err)
	require.NoError(t, d.Grid.Set(0, 0, layout.Plot{Size: 120, Price: 900, Description: "corner"}))
	require.NoError(t, d.Grid.Set(1, 1, layout.Road{}))
	require.NoError(t, d.Grid.Set(1, 2, layout.Amenity{Description: "park"}))
	tpl := models.NewTemplate(d, "user-1")

	id, err := s.Save(ctx, tpl)
	require.NoError(t, err)

	got, err := s.Load(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, tpl.GridCells, got.GridCells)
	assert.Equal(t, "user-1", got.CreatedBy)

	got.Name = "Renamed"
	got.CreatedBy = "user-2"
	_, err = s.Save(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.CreatedBy)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Renamed", list[0].Name)

	deleted, err := s.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = s.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)

	missing, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProjectStore_Emulator(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()
	s := NewProjectStore(client)

	d, err := layout.NewDraft("Live", 1, 2)
	require.NoError(t, err)
	require.NoError(t, d.Grid.Set(0, 0, layout.Plot{Size: 80, Price: 100, Status: layout.StatusSold, OwnerID: "buyer"}))
	require.NoError(t, d.Grid.Set(0, 1, layout.Road{}))
	p := &models.Project{Location: "Colombo", CreatedBy: "user-1"}
	p.SetDraft(d)

	id, err := s.Save(ctx, p)
	require.NoError(t, err)

	got, err := s.Load(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	back, err := got.Draft()
	require.NoError(t, err)
	assert.Equal(t, 1, back.Grid.PlotStats().Sold)
}
