package events

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
)

func receive(t *testing.T, ch <-chan models.PlotEvent) models.PlotEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "subscription closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return models.PlotEvent{}
	}
}

func requireClosed(t *testing.T, ch <-chan models.PlotEvent) {
	t.Helper()
	select {
	case _, ok := <-ch:
		require.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not closed")
	}
}

func soldEvent(projectID string) models.PlotEvent {
	return models.PlotEvent{
		ProjectID:  projectID,
		Row:        1,
		Col:        2,
		Type:       layout.TypePlot,
		PlotNumber: 7,
		Status:     layout.StatusSold,
		OwnerID:    "buyer-1",
		At:         time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestChannel(t *testing.T) {
	assert.Equal(t, "plotgrid:events:project:p1", Channel("p1"))
}

func TestRedisBus_PublishSubscribe(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	bus := NewRedisBus(client, zap.NewNop())
	ctx := context.Background()

	ch, cancel, err := bus.Subscribe(ctx, "p1")
	require.NoError(t, err)
	defer cancel()

	other, cancelOther, err := bus.Subscribe(ctx, "p2")
	require.NoError(t, err)
	defer cancelOther()

	want := soldEvent("p1")
	require.NoError(t, bus.Publish(ctx, want))

	got := receive(t, ch)
	assert.Equal(t, want.PlotNumber, got.PlotNumber)
	assert.Equal(t, want.Status, got.Status)
	assert.True(t, want.At.Equal(got.At))

	select {
	case ev := <-other:
		t.Fatalf("unexpected event for p2: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRedisBus_CancelClosesChannel(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	bus := NewRedisBus(client, zap.NewNop())

	ch, cancel, err := bus.Subscribe(context.Background(), "p1")
	require.NoError(t, err)
	cancel()
	cancel()
	requireClosed(t, ch)
}

func TestRedisBus_DropsMalformedPayload(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	bus := NewRedisBus(client, zap.NewNop())
	ctx := context.Background()

	ch, cancel, err := bus.Subscribe(ctx, "p1")
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, client.Publish(ctx, Channel("p1"), "not json").Err())
	require.NoError(t, bus.Publish(ctx, soldEvent("p1")))

	assert.Equal(t, 7, receive(t, ch).PlotNumber)
}

func TestLocalBus(t *testing.T) {
	bus := NewLocalBus()
	ctx, stop := context.WithCancel(context.Background())

	ch, cancel, err := bus.Subscribe(ctx, "p1")
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, bus.Publish(context.Background(), soldEvent("p2")))
	require.NoError(t, bus.Publish(context.Background(), soldEvent("p1")))
	assert.Equal(t, "p1", receive(t, ch).ProjectID)

	stop()
	requireClosed(t, ch)

	// Publishing after every subscriber left is a no-op.
	require.NoError(t, bus.Publish(context.Background(), soldEvent("p1")))
}
