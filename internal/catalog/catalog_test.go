package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestDefault_IsSortedAndVersioned(t *testing.T) {
	t.Parallel()

	c := Default()
	if c.Version() == "" {
		t.Fatal("default catalog has no version")
	}
	names := c.Names()
	if len(names) != c.Len() || len(names) == 0 {
		t.Fatalf("Names() len = %d, Len() = %d", len(names), c.Len())
	}
	if !sort.StringsAreSorted(names) {
		t.Fatalf("Names() not sorted: %v", names)
	}
	for _, want := range []string{"Air Quality", "Congestion", "Population Growth", "Water Quality"} {
		if !c.Contains(want) {
			t.Errorf("default catalog missing %q", want)
		}
	}
}

func TestContains_RejectsDriftedSpellings(t *testing.T) {
	t.Parallel()

	c := Default()
	for _, name := range []string{"", "Select Indicator", "Population  Growth", "air quality", " Air Quality", "Innovataion"} {
		if c.Contains(name) {
			t.Errorf("Contains(%q) = true, want false", name)
		}
	}
}

func TestNames_ReturnsCopy(t *testing.T) {
	t.Parallel()

	c, err := New("v1", []string{"B", "A"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	names := c.Names()
	names[0] = "mutated"
	if got := c.Names()[0]; got != "A" {
		t.Fatalf("Names()[0] = %q after caller mutation, want A", got)
	}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		version string
		names   []string
	}{
		{"missing version", "", []string{"A"}},
		{"no indicators", "v1", nil},
		{"duplicate", "v1", []string{"A", "A"}},
		{"blank", "v1", []string{"  "}},
		{"trailing space", "v1", []string{"Income "}},
		{"double space", "v1", []string{"Population  Growth"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.version, tt.names); err == nil {
				t.Fatalf("New(%q, %q) succeeded, want error", tt.version, tt.names)
			}
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.yml")
	data := []byte("version: \"test-2\"\nindicators:\n  - Congestion\n  - Air Quality\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Version() != "test-2" {
		t.Errorf("Version() = %q, want test-2", c.Version())
	}
	if got := c.Names(); len(got) != 2 || got[0] != "Air Quality" || got[1] != "Congestion" {
		t.Errorf("Names() = %v, want [Air Quality Congestion]", got)
	}
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	t.Parallel()

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if c != Default() {
		t.Fatal("Load(\"\") did not return the default catalog")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatal("Load of missing file succeeded")
	}
}
