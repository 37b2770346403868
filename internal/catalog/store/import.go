package store

import (
	"context"
	"database/sql"
	"fmt"

	"degreeaudit/internal/catalog/metrics"
	"degreeaudit/internal/catalog/models"
	"degreeaudit/pkg/platform/tx"
)

// sqlBacked is implemented by stores that can run an import in one
// transaction.
type sqlBacked interface {
	DB() *sql.DB
}

// ImportCourses upserts courses into s. SQL-backed stores write every course
// in a single transaction so a failed import leaves the catalog unchanged.
func ImportCourses(ctx context.Context, s Store, courses []models.Course, m *metrics.Metrics) (int, error) {
	write := func(ctx context.Context) error {
		for _, c := range courses {
			if c.ID == "" {
				return fmt.Errorf("course id is required")
			}
			if err := s.Upsert(ctx, c); err != nil {
				return err
			}
		}
		return nil
	}

	var err error
	if db, ok := s.(sqlBacked); ok {
		err = tx.Run(ctx, db.DB(), write)
	} else {
		err = write(ctx)
	}
	if err != nil {
		return 0, fmt.Errorf("import courses: %w", err)
	}
	m.AddImported(len(courses))
	return len(courses), nil
}
