package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"bikeshare/internal/config"
)

// tripExtensions are the source formats the loader reads.
var tripExtensions = []string{".csv", ".xlsx"}

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// CitySource describes the source file bound to a registered city
type CitySource struct {
	City    string
	Path    string
	Exists  bool
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindTripFiles lists the .csv and .xlsx files in dir, sorted by name. A
// relative dir is resolved against the base path.
func (d *Discovery) FindTripFiles(dir string) ([]FileInfo, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !isTripFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// CheckCities stats the source file of every registered city, in registry
// order. A missing file is reported, not returned as an error.
func (d *Discovery) CheckCities(reg *config.Registry) ([]CitySource, error) {
	cities := reg.CityIDs()
	out := make([]CitySource, 0, len(cities))

	for _, city := range cities {
		path, err := reg.ResolveCity(city)
		if err != nil {
			return nil, err
		}

		src := CitySource{City: city, Path: path}
		info, err := os.Stat(path)
		switch {
		case err == nil:
			src.Exists = !info.IsDir()
			src.Size = info.Size()
			src.ModTime = info.ModTime()
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		out = append(out, src)
	}
	return out, nil
}

func isTripFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range tripExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
