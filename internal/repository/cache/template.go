// Package cache puts a Redis read-through layer in front of a template
// repository. Templates are read far more often than they are written, and
// every project creation loads one.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lalith-99/plotgrid/internal/models"
	"github.com/lalith-99/plotgrid/internal/repository"
)

const (
	templateKeyPrefix = "plotgrid:template:" // plotgrid:template:{id}
	templateListKey   = "plotgrid:templates:list"
)

// TemplateStore wraps another TemplateRepository. Redis errors never fail a
// call: they are logged and the backing store answers instead.
type TemplateStore struct {
	next   repository.TemplateRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewTemplateStore(next repository.TemplateRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *TemplateStore {
	return &TemplateStore{next: next, client: client, ttl: ttl, logger: logger}
}

func templateKey(id string) string { return templateKeyPrefix + id }

func (s *TemplateStore) Save(ctx context.Context, t *models.Template) (string, error) {
	id, err := s.next.Save(ctx, t)
	if err != nil {
		return "", err
	}
	s.invalidate(ctx, id)
	return id, nil
}

// Load reads through the cache.
//
// A Load that misses, reads the store, and then loses a race with a Save can
// write the older template back after Save invalidated it. It stays stale
// until the TTL expires.
func (s *TemplateStore) Load(ctx context.Context, id string) (*models.Template, error) {
	var cached models.Template
	if s.get(ctx, templateKey(id), &cached) {
		return &cached, nil
	}

	t, err := s.next.Load(ctx, id)
	if err != nil || t == nil {
		return t, err
	}
	s.set(ctx, templateKey(id), t)
	return t, nil
}

func (s *TemplateStore) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.next.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	s.invalidate(ctx, id)
	return deleted, nil
}

func (s *TemplateStore) List(ctx context.Context) ([]models.TemplateSummary, error) {
	var cached []models.TemplateSummary
	if s.get(ctx, templateListKey, &cached) && cached != nil {
		return cached, nil
	}

	list, err := s.next.List(ctx)
	if err != nil {
		return nil, err
	}
	s.set(ctx, templateListKey, list)
	return list, nil
}

func (s *TemplateStore) get(ctx context.Context, key string, dst any) bool {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Warn("cache entry unreadable", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *TemplateStore) set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *TemplateStore) invalidate(ctx context.Context, id string) {
	if err := s.client.Del(ctx, templateKey(id), templateListKey).Err(); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("template_id", id), zap.Error(err))
	}
}
