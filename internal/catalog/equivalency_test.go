package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultEquivalencyTable(t *testing.T) {
	table := DefaultEquivalencyTable()

	tests := []struct {
		id   string
		want []string
	}{
		{"CMPSC 121", []string{"CMPSC 131"}},
		{"CMPSC 131", []string{"CMPSC 121"}},
		{"cmpsc  132 ", []string{"CMPSC 122"}},
		{"STAT 414", []string{"STAT 318"}},
		{"MATH 140", nil},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, table.EquivalentsOf(tt.id))
		})
	}
}

func TestEquivalencyGroupsAreSymmetric(t *testing.T) {
	table := NewEquivalencyTable([]string{"A 1", "B 1", "C 1"}, []string{"A 1", "D 1"})

	assert.Equal(t, []string{"B 1", "C 1", "D 1"}, table.EquivalentsOf("A 1"))
	assert.Equal(t, []string{"A 1", "C 1"}, table.EquivalentsOf("B 1"))
	assert.Equal(t, []string{"A 1"}, table.EquivalentsOf("D 1"))
}

func TestEquivalentsOfReturnsCopy(t *testing.T) {
	table := DefaultEquivalencyTable()
	got := table.EquivalentsOf("CMPSC 121")
	got[0] = "MUTATED"
	assert.Equal(t, []string{"CMPSC 131"}, table.EquivalentsOf("CMPSC 121"))
}

func TestDecodeEquivalencies(t *testing.T) {
	table, err := DecodeEquivalencies(strings.NewReader(`
groups:
  - [CMPSC 121, cmpsc 131]
  - [ENGL 15]
`))
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len(), "single-member groups are ignored")
	assert.Equal(t, []string{"CMPSC 131"}, table.EquivalentsOf("CMPSC 121"))

	_, err = DecodeEquivalencies(strings.NewReader("groups: {"))
	assert.Error(t, err)
}

func TestLoadEquivalencyTable(t *testing.T) {
	table, err := LoadEquivalencyTable("")
	require.NoError(t, err)
	assert.Equal(t, DefaultEquivalencyTable().Len(), table.Len())

	path := filepath.Join(t.TempDir(), "eq.yaml")
	require.NoError(t, os.WriteFile(path, []byte("groups:\n  - [X 1, Y 2]\n"), 0o600))
	table, err = LoadEquivalencyTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Y 2"}, table.EquivalentsOf("x 1"))

	_, err = LoadEquivalencyTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
