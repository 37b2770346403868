// Package store persists the course catalog.
//
// Every backend returns an error wrapping sentinel.ErrNotFound for unknown
// course ids so callers can tell a missing course from an unreachable store.
package store

import (
	"context"

	"degreeaudit/internal/catalog/models"
	"degreeaudit/pkg/platform/sentinel"
)

// ErrNotFound is returned when a course does not exist in the catalog.
var ErrNotFound = sentinel.ErrNotFound

// Store is the surface shared by every catalog backend.
type Store interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindByAttribute(ctx context.Context, attribute string) ([]models.Course, error)
	Upsert(ctx context.Context, course models.Course) error
}
