// Package catalog owns the canonical, versioned list of indicators that may
// carry a "recently updated" overlay.
//
// The catalog is a closed set. Membership is exact and order-insensitive;
// names are validated on load so spelling drift (stray or doubled spaces,
// duplicates) is rejected instead of silently producing a second indicator.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yml
var defaultYAML []byte

var loadDefault = sync.OnceValue(func() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default is invalid: %v", err))
	}
	return c
})

// Catalog is an immutable set of indicator names.
type Catalog struct {
	version string
	names   []string
	index   map[string]struct{}
}

type catalogFile struct {
	Version    string   `yaml:"version"`
	Indicators []string `yaml:"indicators"`
}

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	return loadDefault()
}

// Load reads a catalog YAML file. An empty path returns the default catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return New(f.Version, f.Indicators)
}

// New builds a catalog from a version tag and a list of names.
func New(version string, names []string) (*Catalog, error) {
	if strings.TrimSpace(version) == "" {
		return nil, fmt.Errorf("version is required")
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("at least one indicator is required")
	}

	index := make(map[string]struct{}, len(names))
	sorted := make([]string, 0, len(names))
	for _, name := range names {
		if err := validateName(name); err != nil {
			return nil, err
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate indicator %q", name)
		}
		index[name] = struct{}{}
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	return &Catalog{version: version, names: sorted, index: index}, nil
}

func validateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("empty indicator name")
	case strings.TrimSpace(name) != name:
		return fmt.Errorf("indicator %q has leading or trailing whitespace", name)
	case strings.Contains(name, "  "):
		return fmt.Errorf("indicator %q contains repeated spaces", name)
	}
	return nil
}

// Version returns the catalog version tag.
func (c *Catalog) Version() string { return c.version }

// Len returns the number of indicators.
func (c *Catalog) Len() int { return len(c.names) }

// Contains reports whether name is a catalog member.
func (c *Catalog) Contains(name string) bool {
	if c == nil {
		return false
	}
	_, ok := c.index[name]
	return ok
}

// Names returns the indicator names sorted ascending. The slice is a copy.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}
