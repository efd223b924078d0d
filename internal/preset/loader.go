package preset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// file is the on-disk shape of one preset YAML file.
type file struct {
	Presets []*Preset `yaml:"presets"`
}

// Parse decodes a single preset YAML document without validating it.
func Parse(data []byte) ([]*Preset, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Presets, nil
}

// LoadDir reads every .yaml/.yml file in dir, in name order, and builds a
// Library from their presets. An empty dir yields an empty Library.
//
// Precondition: dir is "" or a readable directory path.
// Postcondition: Returns a validated Library or a non-nil error naming the file.
func LoadDir(dir string) (*Library, error) {
	if dir == "" {
		return NewLibrary()
	}
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	var all []*Preset
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		presets, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing preset file %s: %w", path, err)
		}
		all = append(all, presets...)
	}
	lib, err := NewLibrary(all...)
	if err != nil {
		return nil, fmt.Errorf("loading presets from %s: %w", dir, err)
	}
	return lib, nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
