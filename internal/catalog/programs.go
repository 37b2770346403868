package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"degreeaudit/internal/audit/models"
	"degreeaudit/pkg/platform/sentinel"
)

// Program kinds as stored in the registry.
const (
	KindMajor       = "major"
	KindMinor       = "minor"
	KindCertificate = "certificate"
	KindGenEd       = "gen_ed"
)

// GenEdProgramID identifies the general education framework in the registry.
const GenEdProgramID = "gen_ed"

// Program files looked up inside the programs directory. Missing files are
// skipped so a deployment can ship only the kinds it ranks.
const (
	majorsFile       = "majors.json"
	minorsFile       = "minors.json"
	certificatesFile = "certificates.json"
	genEdFile        = "gen_ed.json"
)

// Program is a credential with its normalised requirement tree.
type Program struct {
	ID              string
	Name            string
	Kind            string
	CreditsRequired float64
	Requirements    models.Node
}

// Registry holds every loaded program, keyed by id.
type Registry struct {
	mu       sync.RWMutex
	programs map[string]Program
}

// NewRegistry creates a registry seeded with programs.
func NewRegistry(programs ...Program) *Registry {
	r := &Registry{programs: make(map[string]Program, len(programs))}
	for _, p := range programs {
		r.programs[p.ID] = p
	}
	return r
}

// LoadRegistry reads every known program file from dir.
func LoadRegistry(dir string) (*Registry, error) {
	r := NewRegistry()
	loaders := []struct {
		file   string
		decode func(io.Reader) ([]Program, error)
	}{
		{majorsFile, DecodeMajors},
		{minorsFile, DecodeMinors},
		{certificatesFile, DecodeCertificates},
		{genEdFile, DecodeGenEd},
	}
	for _, l := range loaders {
		programs, err := decodeFile(filepath.Join(dir, l.file), l.decode)
		if err != nil {
			return nil, err
		}
		r.Add(programs...)
	}
	return r, nil
}

func decodeFile(path string, decode func(io.Reader) ([]Program, error)) ([]Program, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	programs, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return programs, nil
}

// Add registers programs, replacing any with the same id.
func (r *Registry) Add(programs ...Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range programs {
		r.programs[p.ID] = p
	}
}

// Program returns the program with id.
func (r *Registry) Program(id string) (Program, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.programs[id]
	if !ok {
		return Program{}, fmt.Errorf("program %s: %w", id, sentinel.ErrNotFound)
	}
	return p, nil
}

// IDs lists the ids of every program of kind in lexical order.
func (r *Registry) IDs(kind string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for id, p := range r.programs {
		if p.Kind == kind {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// Len reports how many programs are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.programs)
}

type rawMajor struct {
	MajorID            string  `json:"major_id"`
	Name               string  `json:"name"`
	CreditsRequired    float64 `json:"credits_required"`
	CommonRequirements struct {
		Prescribed *rawNode `json:"prescribed_courses"`
		Additional *rawNode `json:"additional_courses"`
		Supporting *rawNode `json:"supporting_courses"`
	} `json:"common_requirements"`
}

// DecodeMajors reads a majors file: an object keyed by major id whose
// prescribed, additional and supporting sections become one AND tree.
func DecodeMajors(r io.Reader) ([]Program, error) {
	var file map[string]rawMajor
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode majors: %w", err)
	}
	out := make([]Program, 0, len(file))
	for key, m := range file {
		var sections []models.Node
		for _, raw := range []*rawNode{
			m.CommonRequirements.Prescribed,
			m.CommonRequirements.Additional,
			m.CommonRequirements.Supporting,
		} {
			if raw != nil {
				sections = append(sections, normalize(*raw))
			}
		}
		out = append(out, Program{
			ID:              firstNonEmpty(m.MajorID, key),
			Name:            m.Name,
			Kind:            KindMajor,
			CreditsRequired: m.CreditsRequired,
			Requirements: models.Node{
				Label: "Major Requirements",
				Body:  models.And{Children: sections},
			},
		})
	}
	sortPrograms(out)
	return out, nil
}

type rawCredential struct {
	MinorID              string   `json:"minor_id"`
	MinorName            string   `json:"minor_name"`
	CertificateID        string   `json:"certificate_id"`
	CertificateName      string   `json:"certificate_name"`
	Name                 string   `json:"name"`
	TotalCreditsRequired float64  `json:"total_credits_required"`
	Requirements         *rawNode `json:"requirements"`
}

// DecodeMinors reads {"minors": {id: {...}}}.
func DecodeMinors(r io.Reader) ([]Program, error) {
	var file struct {
		Minors map[string]rawCredential `json:"minors"`
	}
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode minors: %w", err)
	}
	return credentials(file.Minors, KindMinor), nil
}

// DecodeCertificates reads {"certificates": {id: {...}}}.
func DecodeCertificates(r io.Reader) ([]Program, error) {
	var file struct {
		Certificates map[string]rawCredential `json:"certificates"`
	}
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode certificates: %w", err)
	}
	return credentials(file.Certificates, KindCertificate), nil
}

func credentials(raw map[string]rawCredential, kind string) []Program {
	out := make([]Program, 0, len(raw))
	for key, c := range raw {
		tree := models.Node{Body: models.And{}}
		if c.Requirements != nil {
			tree = normalize(*c.Requirements)
		}
		out = append(out, Program{
			ID:              firstNonEmpty(c.MinorID, c.CertificateID, key),
			Name:            firstNonEmpty(c.MinorName, c.CertificateName, c.Name),
			Kind:            kind,
			CreditsRequired: c.TotalCreditsRequired,
			Requirements:    tree,
		})
	}
	sortPrograms(out)
	return out
}

type rawGenEd struct {
	GenEdRequirements struct {
		TotalCredits float64                     `json:"total_credits"`
		Categories   map[string]rawGenEdCategory `json:"categories"`
	} `json:"gen_ed_requirements"`
}

type rawGenEdCategory struct {
	Label        string             `json:"label"`
	TotalCredits *float64           `json:"total_credits"`
	MinGrade     string             `json:"min_grade"`
	Components   map[string]rawNode `json:"components"`
}

// DecodeGenEd reads the general education framework. Each category becomes
// an AND of its components; categories and components are ordered by key.
func DecodeGenEd(r io.Reader) ([]Program, error) {
	var file rawGenEd
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode gen ed: %w", err)
	}
	reqs := file.GenEdRequirements

	var categories []models.Node
	for _, key := range sortedKeys(reqs.Categories) {
		cat := reqs.Categories[key]
		var components []models.Node
		for _, ck := range sortedKeys(cat.Components) {
			components = append(components, normalize(cat.Components[ck]))
		}
		categories = append(categories, models.Node{
			Label:    firstNonEmpty(cat.Label, key),
			Credits:  cat.TotalCredits,
			MinGrade: cat.MinGrade,
			Body:     models.And{Children: components},
		})
	}

	root := models.Node{
		Label: "General Education Requirements",
		Body:  models.And{Children: categories},
	}
	if reqs.TotalCredits > 0 {
		root.Credits = models.Credits(reqs.TotalCredits)
	}
	return []Program{{
		ID:              GenEdProgramID,
		Name:            root.Label,
		Kind:            KindGenEd,
		CreditsRequired: reqs.TotalCredits,
		Requirements:    root,
	}}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func sortPrograms(p []Program) {
	slices.SortFunc(p, func(a, b Program) int { return strings.Compare(a.ID, b.ID) })
}
