package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"degreeaudit/internal/catalog/models"
)

// courseFile is the on-disk course dump: {"courses": {"CMPSC 131": {...}}}.
type courseFile struct {
	Courses map[string]rawCourse `json:"courses"`
}

type rawCourse struct {
	CourseName  string        `json:"course_name"`
	Name        string        `json:"name"`
	Credits     rawCredits    `json:"credits"`
	Department  string        `json:"department"`
	Level       int           `json:"level"`
	Description string        `json:"description"`
	Attributes  rawAttributes `json:"attributes"`
}

type rawAttributes struct {
	GenEd []string `json:"gen_ed"`
}

// rawCredits accepts either a number or {"min": n, "max": m}.
type rawCredits struct {
	Min float64
	Max float64
}

func (c *rawCredits) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		c.Min, c.Max = n, n
		return nil
	}
	var r struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("credits must be a number or {min,max}: %w", err)
	}
	c.Min, c.Max = r.Min, r.Max
	if c.Max == 0 {
		c.Max = c.Min
	}
	return nil
}

// DecodeCourses reads a course dump and returns the courses sorted by id.
// Department and level fall back to the parts of the id ("CMPSC 131").
func DecodeCourses(r io.Reader) ([]models.Course, error) {
	var file courseFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode course file: %w", err)
	}

	out := make([]models.Course, 0, len(file.Courses))
	for id, raw := range file.Courses {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		name := raw.CourseName
		if name == "" {
			name = raw.Name
		}
		dept, level := splitCourseID(id)
		if raw.Department != "" {
			dept = raw.Department
		}
		if raw.Level != 0 {
			level = raw.Level
		}
		out = append(out, models.Course{
			ID:          id,
			Name:        name,
			CreditsMin:  raw.Credits.Min,
			CreditsMax:  raw.Credits.Max,
			Department:  strings.ToUpper(dept),
			Level:       level,
			GenEd:       raw.Attributes.GenEd,
			Description: raw.Description,
		})
	}
	slices.SortFunc(out, func(a, b models.Course) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

// splitCourseID derives department and numeric level from "DEPT 123X".
func splitCourseID(id string) (string, int) {
	fields := strings.Fields(id)
	if len(fields) < 2 {
		return "", 0
	}
	level := 0
	for _, r := range fields[len(fields)-1] {
		if r < '0' || r > '9' {
			break
		}
		level = level*10 + int(r-'0')
	}
	return strings.Join(fields[:len(fields)-1], " "), level
}
