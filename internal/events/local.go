package events

import (
	"context"
	"sync"

	"github.com/lalith-99/plotgrid/internal/models"
)

// LocalBus is an in-process Bus for single-instance runs without Redis.
// A subscriber that falls behind loses events rather than blocking Publish.
type LocalBus struct {
	mu   sync.Mutex
	subs map[string]map[chan models.PlotEvent]struct{}
}

func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[string]map[chan models.PlotEvent]struct{})}
}

func (b *LocalBus) Publish(_ context.Context, ev models.PlotEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[ev.ProjectID] {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

func (b *LocalBus) Subscribe(ctx context.Context, projectID string) (<-chan models.PlotEvent, func(), error) {
	ch := make(chan models.PlotEvent, 16)

	b.mu.Lock()
	if b.subs[projectID] == nil {
		b.subs[projectID] = make(map[chan models.PlotEvent]struct{})
	}
	b.subs[projectID][ch] = struct{}{}
	b.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs[projectID], ch)
		if len(b.subs[projectID]) == 0 {
			delete(b.subs, projectID)
		}
		b.mu.Unlock()
		close(ch)
	}()
	return ch, cancel, nil
}
