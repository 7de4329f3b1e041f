package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare/internal/config"
)

func TestNewDiscovery(t *testing.T) {
	discovery := NewDiscovery("/test/base")
	assert.Equal(t, "/test/base", discovery.basePath)
}

func TestFindTripFiles(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		expected []string
	}{
		{
			name:     "csv and xlsx",
			files:    []string{"washington.csv", "chicago.xlsx", "CHICAGO_2.CSV"},
			expected: []string{"CHICAGO_2.CSV", "chicago.xlsx", "washington.csv"},
		},
		{
			name:     "other types ignored",
			files:    []string{"notes.txt", "old.xls", "chicago.csv"},
			expected: []string{"chicago.csv"},
		},
		{
			name:     "empty directory",
			files:    nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			dir := filepath.Join(base, "data")
			require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested.csv"), 0755))
			for _, f := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("x"), 0644))
			}

			found, err := NewDiscovery(base).FindTripFiles("data")
			require.NoError(t, err)

			var names []string
			for _, f := range found {
				names = append(names, f.Name)
				assert.Equal(t, int64(1), f.Size)
				assert.Equal(t, filepath.Join(dir, f.Name), f.Path)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestFindTripFiles_MissingDir(t *testing.T) {
	_, err := NewDiscovery(t.TempDir()).FindTripFiles("nope")
	require.Error(t, err)
}

func TestCheckCities(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chicago.csv"), []byte("Start Time\n"), 0644))

	sources, err := NewDiscovery(dir).CheckCities(config.DefaultRegistry(dir))
	require.NoError(t, err)
	require.Len(t, sources, 3)

	assert.Equal(t, "chicago", sources[0].City)
	assert.True(t, sources[0].Exists)
	assert.Equal(t, int64(11), sources[0].Size)

	assert.Equal(t, "new york city", sources[1].City)
	assert.False(t, sources[1].Exists)
	assert.Equal(t, filepath.Join(dir, "new_york_city.csv"), sources[1].Path)

	assert.False(t, sources[2].Exists)
}
