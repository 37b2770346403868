package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"github.com/lib/pq"

	"degreeaudit/internal/catalog/models"
	"degreeaudit/pkg/platform/tx"
)

// PostgresSchema creates the catalog table used by PostgresStore.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS courses (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL DEFAULT '',
	credits_min DOUBLE PRECISION NOT NULL DEFAULT 0,
	credits_max DOUBLE PRECISION NOT NULL DEFAULT 0,
	department  TEXT NOT NULL DEFAULT '',
	level       INTEGER NOT NULL DEFAULT 0,
	gen_ed      TEXT[] NOT NULL DEFAULT '{}',
	description TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_courses_department ON courses(department);
CREATE INDEX IF NOT EXISTS idx_courses_gen_ed ON courses USING GIN (gen_ed);
`

const postgresColumns = `id, name, credits_min, credits_max, department, level, gen_ed, description`

// PostgresStore persists the catalog in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects through the pgx database/sql driver and applies the
// schema.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres catalog: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres catalog: %w", err)
	}
	s := NewPostgresStore(db)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStore constructs a PostgreSQL-backed catalog store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// DB exposes the handle for transactional imports.
func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

// Migrate applies PostgresSchema.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, PostgresSchema); err != nil {
		return fmt.Errorf("migrate postgres catalog: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*models.Course, error) {
	row := tx.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+postgresColumns+` FROM courses WHERE id = $1`, id)
	c, err := scanPostgresCourse(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("course %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("find course %s: %w", id, err)
	}
	return c, nil
}

func (s *PostgresStore) FindByAttribute(ctx context.Context, attribute string) ([]models.Course, error) {
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx,
		`SELECT `+postgresColumns+` FROM courses
		WHERE EXISTS (SELECT 1 FROM unnest(gen_ed) AS a WHERE upper(a) = upper($1))
		ORDER BY id`, attribute)
	if err != nil {
		return nil, fmt.Errorf("find courses by attribute %s: %w", attribute, err)
	}
	defer rows.Close()

	var out []models.Course
	for rows.Next() {
		c, err := scanPostgresCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, course models.Course) error {
	_, err := tx.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO courses (`+postgresColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			credits_min = EXCLUDED.credits_min,
			credits_max = EXCLUDED.credits_max,
			department = EXCLUDED.department,
			level = EXCLUDED.level,
			gen_ed = EXCLUDED.gen_ed,
			description = EXCLUDED.description`,
		course.ID, course.Name, course.CreditsMin, course.CreditsMax,
		course.Department, course.Level, pq.Array(nonNil(course.GenEd)), course.Description)
	if err != nil {
		return fmt.Errorf("upsert course %s: %w", course.ID, err)
	}
	return nil
}

func scanPostgresCourse(row rowScanner) (*models.Course, error) {
	var c models.Course
	var genEd pq.StringArray
	if err := row.Scan(&c.ID, &c.Name, &c.CreditsMin, &c.CreditsMax, &c.Department, &c.Level, &genEd, &c.Description); err != nil {
		return nil, err
	}
	c.GenEd = []string(genEd)
	return &c, nil
}
