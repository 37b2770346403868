package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"degreeaudit/internal/catalog/metrics"
	"degreeaudit/internal/catalog/models"
)

// Cache is the byte-level key/value surface behind CachedStore.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// missingMarker records a course id the backend does not know, so repeated
// lookups of uncatalogued transcript entries skip the backend.
var missingMarker = []byte("-")

// CachedStore is a read-through cache in front of another Store.
type CachedStore struct {
	next    Store
	cache   Cache
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewCachedStore wraps next with cache. A non-positive ttl disables expiry.
func NewCachedStore(next Store, cache Cache, ttl time.Duration, m *metrics.Metrics) *CachedStore {
	return &CachedStore{next: next, cache: cache, ttl: ttl, metrics: m}
}

func courseKey(id string) string {
	return "catalog:course:" + id
}

func attributeKey(attr string) string {
	return "catalog:attr:" + strings.ToUpper(attr)
}

func (s *CachedStore) FindByID(ctx context.Context, id string) (*models.Course, error) {
	start := time.Now()
	key := courseKey(id)
	if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		s.recordHit("course", start)
		if string(raw) == string(missingMarker) {
			return nil, fmt.Errorf("course %s: %w", id, ErrNotFound)
		}
		var c models.Course
		if err := json.Unmarshal(raw, &c); err == nil {
			return &c, nil
		}
	}
	s.recordMiss("course", start)

	c, err := s.next.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			_ = s.cache.Set(ctx, key, missingMarker, s.ttl)
		}
		return nil, err
	}
	if raw, err := json.Marshal(c); err == nil {
		_ = s.cache.Set(ctx, key, raw, s.ttl)
	}
	return c, nil
}

func (s *CachedStore) FindByAttribute(ctx context.Context, attribute string) ([]models.Course, error) {
	start := time.Now()
	key := attributeKey(attribute)
	if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var courses []models.Course
		if err := json.Unmarshal(raw, &courses); err == nil {
			s.recordHit("attribute", start)
			return courses, nil
		}
	}
	s.recordMiss("attribute", start)

	courses, err := s.next.FindByAttribute(ctx, attribute)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(courses); err == nil {
		_ = s.cache.Set(ctx, key, raw, s.ttl)
	}
	return courses, nil
}

// Upsert writes through to the backend and drops the cache keys of the
// course and of every attribute it had or now has.
func (s *CachedStore) Upsert(ctx context.Context, course models.Course) error {
	attrs := course.GenEd
	if prev, err := s.next.FindByID(ctx, course.ID); err == nil {
		attrs = append(slices.Clone(attrs), prev.GenEd...)
	}
	if err := s.next.Upsert(ctx, course); err != nil {
		return err
	}
	keys := []string{courseKey(course.ID)}
	for _, attr := range attrs {
		keys = append(keys, attributeKey(attr))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("invalidate cached course %s: %w", course.ID, err)
	}
	return nil
}

func (s *CachedStore) recordHit(lookup string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordCacheHit(lookup)
	s.metrics.ObserveLookup(lookup, time.Since(start))
}

func (s *CachedStore) recordMiss(lookup string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordCacheMiss(lookup)
	s.metrics.ObserveLookup(lookup, time.Since(start))
}
