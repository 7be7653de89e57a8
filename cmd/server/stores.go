package main

import (
	"context"
	"fmt"

	gfs "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lalith-99/plotgrid/internal/api"
	"github.com/lalith-99/plotgrid/internal/auth"
	"github.com/lalith-99/plotgrid/internal/config"
	"github.com/lalith-99/plotgrid/internal/db"
	"github.com/lalith-99/plotgrid/internal/repository"
	"github.com/lalith-99/plotgrid/internal/repository/firestore"
	"github.com/lalith-99/plotgrid/internal/repository/memory"
	"github.com/lalith-99/plotgrid/internal/repository/postgres"
)

// dependencies are the long-lived clients run() has to close on the way out.
type dependencies struct {
	database  *db.DB
	firebase  *firebase.App
	firestore *gfs.Client
	redis     *redis.Client
}

func (d *dependencies) close() {
	if d.redis != nil {
		_ = d.redis.Close()
	}
	if d.firestore != nil {
		_ = d.firestore.Close()
	}
	if d.database != nil {
		d.database.Close()
	}
}

type stores struct {
	templates repository.TemplateRepository
	projects  repository.ProjectRepository
	health    map[string]api.HealthCheck
}

func openStores(ctx context.Context, cfg *config.Config, deps *dependencies, logger *zap.Logger) (*stores, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		database, err := db.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		deps.database = database
		if err := database.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		pool := database.Pool()
		return &stores{
			templates: postgres.NewTemplateStore(pool),
			projects:  postgres.NewProjectStore(pool),
			health:    map[string]api.HealthCheck{"postgres": database.Health},
		}, nil

	case config.BackendFirestore:
		client, err := auth.FirestoreClient(ctx, deps.firebase)
		if err != nil {
			return nil, err
		}
		deps.firestore = client
		return &stores{
			templates: firestore.NewTemplateStore(client),
			projects:  firestore.NewProjectStore(client),
			health:    map[string]api.HealthCheck{},
		}, nil

	default:
		logger.Warn("using in-memory store; data is lost on restart")
		return &stores{
			templates: memory.NewTemplateStore(),
			projects:  memory.NewProjectStore(),
			health:    map[string]api.HealthCheck{},
		}, nil
	}
}
