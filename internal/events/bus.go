// Package events fans plot changes out to live subscribers of a project.
package events

import (
	"context"

	"github.com/lalith-99/plotgrid/internal/models"
)

// Bus publishes plot events and hands out per-project subscriptions.
type Bus interface {
	Publish(ctx context.Context, ev models.PlotEvent) error

	// Subscribe delivers the project's events until ctx is done or the
	// returned cancel is called. The channel is closed after either.
	Subscribe(ctx context.Context, projectID string) (<-chan models.PlotEvent, func(), error)
}

// Channel is the pub/sub channel name for a project.
func Channel(projectID string) string {
	return "plotgrid:events:project:" + projectID
}
