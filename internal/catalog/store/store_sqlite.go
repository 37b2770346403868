package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"degreeaudit/internal/catalog/models"
	"degreeaudit/pkg/platform/tx"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS courses (
	id          TEXT PRIMARY KEY,
	name        TEXT,
	credits_min REAL NOT NULL DEFAULT 0,
	credits_max REAL NOT NULL DEFAULT 0,
	department  TEXT,
	level       INTEGER NOT NULL DEFAULT 0,
	gen_ed_json TEXT NOT NULL DEFAULT '[]',
	raw_json    TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_courses_department ON courses(department);
CREATE INDEX IF NOT EXISTS idx_courses_level ON courses(level);
`

const sqliteColumns = `id, name, credits_min, credits_max, department, level, gen_ed_json, raw_json`

// SQLiteStore reads the catalog from a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the catalog database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite catalog: %w", err)
	}
	s := NewSQLiteStore(db)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteStore wraps an open database handle.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// DB exposes the handle for transactional imports.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Migrate creates the courses table and its indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("migrate sqlite catalog: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) FindByID(ctx context.Context, id string) (*models.Course, error) {
	row := tx.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+sqliteColumns+` FROM courses WHERE id = ?`, id)
	c, err := scanSQLiteCourse(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("course %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("find course %s: %w", id, err)
	}
	return c, nil
}

func (s *SQLiteStore) FindByAttribute(ctx context.Context, attribute string) ([]models.Course, error) {
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT `+sqliteColumns+` FROM courses
		WHERE EXISTS (
			SELECT 1 FROM json_each(courses.gen_ed_json)
			WHERE json_each.value = ? COLLATE NOCASE
		)
		ORDER BY id`, attribute)
	if err != nil {
		return nil, fmt.Errorf("find courses by attribute %s: %w", attribute, err)
	}
	defer rows.Close()

	var out []models.Course
	for rows.Next() {
		c, err := scanSQLiteCourse(rows)
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

func (s *SQLiteStore) Upsert(ctx context.Context, course models.Course) error {
	genEd, err := json.Marshal(nonNil(course.GenEd))
	if err != nil {
		return fmt.Errorf("encode gen ed attributes: %w", err)
	}
	raw, err := json.Marshal(rawCourse{Description: course.Description})
	if err != nil {
		return fmt.Errorf("encode course details: %w", err)
	}

	_, err = tx.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO courses (`+sqliteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			credits_min = excluded.credits_min,
			credits_max = excluded.credits_max,
			department = excluded.department,
			level = excluded.level,
			gen_ed_json = excluded.gen_ed_json,
			raw_json = excluded.raw_json`,
		course.ID, course.Name, course.CreditsMin, course.CreditsMax,
		course.Department, course.Level, string(genEd), string(raw))
	if err != nil {
		return fmt.Errorf("upsert course %s: %w", course.ID, err)
	}
	return nil
}

// rawCourse holds the catalog fields that have no column of their own.
type rawCourse struct {
	Description string `json:"description,omitempty"`
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteCourse(row rowScanner) (*models.Course, error) {
	var (
		c          models.Course
		name, dept sql.NullString
		genEd, raw sql.NullString
	)
	if err := row.Scan(&c.ID, &name, &c.CreditsMin, &c.CreditsMax, &dept, &c.Level, &genEd, &raw); err != nil {
		return nil, err
	}
	c.Name = name.String
	c.Department = dept.String
	if genEd.String != "" {
		if err := json.Unmarshal([]byte(genEd.String), &c.GenEd); err != nil {
			return nil, fmt.Errorf("decode gen ed attributes of %s: %w", c.ID, err)
		}
	}
	if raw.String != "" {
		var details rawCourse
		if err := json.Unmarshal([]byte(raw.String), &details); err == nil {
			c.Description = details.Description
		}
	}
	return &c, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
