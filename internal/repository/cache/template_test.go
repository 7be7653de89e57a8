package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lalith-99/plotgrid/internal/layout"
	"github.com/lalith-99/plotgrid/internal/models"
	"github.com/lalith-99/plotgrid/internal/repository"
	"github.com/lalith-99/plotgrid/internal/repository/memory"
)

var _ repository.TemplateRepository = (*TemplateStore)(nil)

// countingRepo records how many loads and lists reach the backing store.
type countingRepo struct {
	repository.TemplateRepository
	loads int
	lists int
}

func (r *countingRepo) Load(ctx context.Context, id string) (*models.Template, error) {
	r.loads++
	return r.TemplateRepository.Load(ctx, id)
}

func (r *countingRepo) List(ctx context.Context) ([]models.TemplateSummary, error) {
	r.lists++
	return r.TemplateRepository.List(ctx)
}

func setup(t *testing.T) (*TemplateStore, *countingRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	backing := &countingRepo{TemplateRepository: memory.NewTemplateStore()}
	return NewTemplateStore(backing, client, 10*time.Minute, zap.NewNop()), backing, mr
}

func newTemplate(t *testing.T, name string) *models.Template {
	t.Helper()
	d, err := layout.NewDraft(name, 2, 2)
	require.NoError(t, err)
	require.NoError(t, d.Grid.Set(0, 0, layout.Plot{Size: 100, Price: 10}))
	require.NoError(t, d.Grid.Set(0, 1, layout.Road{}))
	return models.NewTemplate(d, "user-1")
}

func TestTemplateStore_LoadReadsThrough(t *testing.T) {
	ctx := context.Background()
	s, backing, mr := setup(t)

	id, err := s.Save(ctx, newTemplate(t, "Cached"))
	require.NoError(t, err)

	first, err := s.Load(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.True(t, mr.Exists(templateKey(id)))
	assert.Equal(t, 10*time.Minute, mr.TTL(templateKey(id)))

	second, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, backing.loads)
	assert.Equal(t, first.GridCells, second.GridCells)
}

func TestTemplateStore_MissingIsNotCached(t *testing.T) {
	ctx := context.Background()
	s, backing, mr := setup(t)

	got, err := s.Load(ctx, "absent")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists(templateKey("absent")))

	_, err = s.Load(ctx, "absent")
	require.NoError(t, err)
	assert.Equal(t, 2, backing.loads)
}

func TestTemplateStore_SaveInvalidates(t *testing.T) {
	ctx := context.Background()
	s, _, mr := setup(t)

	tpl := newTemplate(t, "v1")
	id, err := s.Save(ctx, tpl)
	require.NoError(t, err)
	_, err = s.Load(ctx, id)
	require.NoError(t, err)
	_, err = s.List(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists(templateListKey))

	tpl.Name = "v2"
	_, err = s.Save(ctx, tpl)
	require.NoError(t, err)
	assert.False(t, mr.Exists(templateKey(id)))
	assert.False(t, mr.Exists(templateListKey))

	got, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Name)
}

func TestTemplateStore_ListCachedUntilDelete(t *testing.T) {
	ctx := context.Background()
	s, backing, _ := setup(t)

	id, err := s.Save(ctx, newTemplate(t, "one"))
	require.NoError(t, err)

	for range 3 {
		list, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	}
	assert.Equal(t, 1, backing.lists)

	deleted, err := s.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 2, backing.lists)
}

func TestTemplateStore_RedisDownFallsBack(t *testing.T) {
	ctx := context.Background()
	s, backing, mr := setup(t)

	id, err := s.Save(ctx, newTemplate(t, "resilient"))
	require.NoError(t, err)
	mr.Close()

	got, err := s.Load(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "resilient", got.Name)
	assert.Equal(t, 1, backing.loads)
}
