package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lalith-99/plotgrid/internal/events"
	"github.com/lalith-99/plotgrid/internal/layout"
	"github.com/lalith-99/plotgrid/internal/models"
	"github.com/lalith-99/plotgrid/internal/repository"
	"github.com/lalith-99/plotgrid/internal/repository/memory"
)

func ptr[T any](v T) *T { return &v }

// brokenTemplates fails every call, like an unreachable database.
type brokenTemplates struct{}

var errDown = errors.New("connection refused")

func (brokenTemplates) Save(context.Context, *models.Template) (string, error) { return "", errDown }
func (brokenTemplates) Load(context.Context, string) (*models.Template, error) { return nil, errDown }
func (brokenTemplates) Delete(context.Context, string) (bool, error)           { return false, errDown }
func (brokenTemplates) List(context.Context) ([]models.TemplateSummary, error) { return nil, errDown }

var _ repository.TemplateRepository = brokenTemplates{}

// publishable is a 3x3 layout: a road down the middle column, plots on the
// left, a park on the right.
func publishable(t *testing.T, name string) *layout.Draft {
	t.Helper()
	d, err := layout.NewDraft(name, 3, 3)
	require.NoError(t, err)
	for r := range 3 {
		require.NoError(t, d.Grid.Set(r, 1, layout.Road{}))
		require.NoError(t, d.Grid.Set(r, 0, layout.Plot{Size: 200, Price: 10000}))
	}
	require.NoError(t, d.Grid.Set(1, 2, layout.Amenity{Description: "Park"}))
	return d
}

func TestTemplateService_SaveRejectsUnpublishable(t *testing.T) {
	svc := NewTemplateService(memory.NewTemplateStore(), zap.NewNop())

	d, err := layout.NewDraft("Empty", 2, 2)
	require.NoError(t, err)
	_, err = svc.Save(context.Background(), d, "user-1")

	var verr *layout.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, layout.RulePlot, verr.Rule)
	assert.Empty(t, d.ID)

	results := svc.Validate(d)
	require.Len(t, results, 2)
	assert.Equal(t, layout.ReasonNoRoad, results[1].Reason)
}

func TestTemplateService_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewTemplateService(memory.NewTemplateStore(), zap.NewNop())

	d := publishable(t, "Riverside")
	saved, err := svc.Save(ctx, d, "user-1")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, d.ID)

	_, back, err := svc.LoadDraft(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.Summary(), back.Summary())

	require.NoError(t, svc.Delete(ctx, d.ID))
	assert.ErrorIs(t, svc.Delete(ctx, d.ID), ErrNotFound)
	_, err = svc.Load(ctx, d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTemplateService_UpdateRequiresExisting(t *testing.T) {
	svc := NewTemplateService(memory.NewTemplateStore(), zap.NewNop())
	_, err := svc.Update(context.Background(), "missing", publishable(t, "x"), "user-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTemplateService_PersistenceFailure(t *testing.T) {
	svc := NewTemplateService(brokenTemplates{}, zap.NewNop())

	_, err := svc.Save(context.Background(), publishable(t, "Riverside"), "user-1")
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "save failed", perr.Error())
	assert.ErrorIs(t, err, errDown)

	_, err = svc.List(context.Background())
	assert.ErrorAs(t, err, &perr)
}

func TestTemplateService_Renumber(t *testing.T) {
	ctx := context.Background()
	svc := NewTemplateService(memory.NewTemplateStore(), zap.NewNop())

	d := publishable(t, "Riverside")
	// Give the top plot a number out of reading order.
	require.NoError(t, d.Update(0, 0, layout.CellUpdate{PlotNumber: ptr(9)}))
	_, err := svc.Save(ctx, d, "user-1")
	require.NoError(t, err)

	_, changed, err := svc.Renumber(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{9: 1}, changed)

	_, back, err := svc.LoadDraft(ctx, d.ID)
	require.NoError(t, err)
	first, ok := back.Grid.PlotByNumber(1)
	require.True(t, ok)
	assert.Equal(t, 0, first.Row)

	_, changed, err = svc.Renumber(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestTemplateService_ExportImport(t *testing.T) {
	ctx := context.Background()
	svc := NewTemplateService(memory.NewTemplateStore(), zap.NewNop())

	d := publishable(t, "Riverside")
	_, err := svc.Save(ctx, d, "user-1")
	require.NoError(t, err)

	doc, err := svc.Export(ctx, d.ID)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "name: Riverside")

	imported, err := svc.Import(ctx, doc, "user-2")
	require.NoError(t, err)
	assert.NotEqual(t, d.ID, imported.ID)
	assert.Equal(t, "user-2", imported.CreatedBy)

	_, err = svc.Import(ctx, []byte("gridSize: {rows: 0, cols: 3}\nname: bad\n"), "user-2")
	assert.ErrorIs(t, err, layout.ErrDimensionOutOfRange)
}

type projectFixture struct {
	svc       *ProjectService
	templates *TemplateService
	bus       *events.LocalBus
	tplID     string
}

func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()
	tplRepo := memory.NewTemplateStore()
	templates := NewTemplateService(tplRepo, zap.NewNop())
	d := publishable(t, "Riverside")
	_, err := templates.Save(context.Background(), d, "user-1")
	require.NoError(t, err)

	bus := events.NewLocalBus()
	svc := NewProjectService(memory.NewProjectStore(), tplRepo, bus, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC) }
	return &projectFixture{svc: svc, templates: templates, bus: bus, tplID: d.ID}
}

func TestProjectService_CreateFromTemplate(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t)

	p, err := f.svc.CreateFromTemplate(ctx, CreateProjectInput{TemplateID: f.tplID, Location: "Kandy"}, "user-2")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Riverside", p.Name)
	assert.Equal(t, f.tplID, p.TemplateID)
	assert.Equal(t, layout.GridSize{Rows: 3, Cols: 3}, p.GridSize)

	_, err = f.svc.CreateFromTemplate(ctx, CreateProjectInput{TemplateID: "nope"}, "user-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectService_SaveKeepsTemplateLink(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t)

	p, err := f.svc.CreateFromTemplate(ctx, CreateProjectInput{TemplateID: f.tplID, Name: "Phase 1", Location: "Kandy"}, "user-2")
	require.NoError(t, err)

	d := publishable(t, "Phase 1 revised")
	d.ID = p.ID
	saved, err := f.svc.Save(ctx, d, "", "user-3")
	require.NoError(t, err)
	assert.Equal(t, f.tplID, saved.TemplateID)
	assert.Equal(t, "Kandy", saved.Location)
	assert.Equal(t, "user-2", saved.CreatedBy)

	d.ID = "ghost"
	_, err = f.svc.Save(ctx, d, "", "user-3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectService_UpdatePlotLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t)
	p, err := f.svc.CreateFromTemplate(ctx, CreateProjectInput{TemplateID: f.tplID}, "user-2")
	require.NoError(t, err)

	feed, cancel, err := f.svc.Subscribe(ctx, p.ID)
	require.NoError(t, err)
	defer cancel()

	cell, err := f.svc.UpdatePlot(ctx, p.ID, 0, 0, layout.CellUpdate{
		Status:  ptr(layout.StatusSold),
		OwnerID: ptr("buyer-1"),
	})
	require.NoError(t, err)
	plot, ok := cell.Plot()
	require.True(t, ok)
	assert.Equal(t, "buyer-1", plot.OwnerID)
	require.NotNil(t, plot.PurchaseDate)
	assert.Equal(t, f.svc.now(), *plot.PurchaseDate)

	select {
	case ev := <-feed:
		assert.Equal(t, layout.StatusSold, ev.Status)
		assert.Equal(t, plot.Number, ev.PlotNumber)
	case <-time.After(time.Second):
		t.Fatal("no plot event")
	}

	cell, err = f.svc.UpdatePlot(ctx, p.ID, 0, 0, layout.CellUpdate{Status: ptr(layout.StatusAvailable)})
	require.NoError(t, err)
	plot, _ = cell.Plot()
	assert.Empty(t, plot.OwnerID)
	assert.Nil(t, plot.PurchaseDate)

	_, back, err := f.svc.LoadDraft(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, back.Grid.PlotStats().Available)
}

func TestProjectService_UpdatePlotRejections(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t)
	p, err := f.svc.CreateFromTemplate(ctx, CreateProjectInput{TemplateID: f.tplID}, "user-2")
	require.NoError(t, err)

	_, err = f.svc.UpdatePlot(ctx, p.ID, 0, 1, layout.CellUpdate{Status: ptr(layout.StatusSold)})
	assert.ErrorIs(t, err, ErrNotAPlot)

	_, err = f.svc.UpdatePlot(ctx, p.ID, 0, 0, layout.CellUpdate{Type: ptr(layout.TypeRoad)})
	assert.ErrorIs(t, err, ErrNotAPlot)

	_, err = f.svc.UpdatePlot(ctx, p.ID, 7, 0, layout.CellUpdate{Status: ptr(layout.StatusSold)})
	assert.ErrorIs(t, err, layout.ErrOutOfBounds)

	_, err = f.svc.UpdatePlot(ctx, p.ID, 0, 0, layout.CellUpdate{PlotNumber: ptr(2)})
	assert.ErrorIs(t, err, layout.ErrDuplicatePlotNumber)

	_, err = f.svc.UpdatePlot(ctx, "missing", 0, 0, layout.CellUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectService_DeleteAndList(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t)
	p, err := f.svc.CreateFromTemplate(ctx, CreateProjectInput{TemplateID: f.tplID}, "user-2")
	require.NoError(t, err)

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.svc.Delete(ctx, p.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, p.ID), ErrNotFound)
}
