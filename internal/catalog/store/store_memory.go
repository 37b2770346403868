package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"degreeaudit/internal/catalog/models"
)

// InMemoryStore keeps the catalog in a map. Used for tests and for small
// catalogs loaded from JSON at startup.
type InMemoryStore struct {
	mu      sync.RWMutex
	courses map[string]models.Course
}

// NewInMemoryStore creates a store seeded with courses.
func NewInMemoryStore(courses ...models.Course) *InMemoryStore {
	s := &InMemoryStore{courses: make(map[string]models.Course, len(courses))}
	for _, c := range courses {
		s.courses[c.ID] = c
	}
	return s
}

// FindByID returns a copy of the course with id.
func (s *InMemoryStore) FindByID(_ context.Context, id string) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[id]
	if !ok {
		return nil, fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	c.GenEd = slices.Clone(c.GenEd)
	return &c, nil
}

// FindByAttribute returns every course carrying attribute, ordered by id.
func (s *InMemoryStore) FindByAttribute(_ context.Context, attribute string) ([]models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Course
	for _, c := range s.courses {
		if c.HasAttribute(attribute) {
			c.GenEd = slices.Clone(c.GenEd)
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b models.Course) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

// Upsert stores or replaces a course.
func (s *InMemoryStore) Upsert(_ context.Context, course models.Course) error {
	if course.ID == "" {
		return fmt.Errorf("course id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	course.GenEd = slices.Clone(course.GenEd)
	s.courses[course.ID] = course
	return nil
}
