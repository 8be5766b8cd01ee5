package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestCatalogCommand_PrintsFile(t *testing.T) {
	path := writeConfig(t, "version: \"2025.2\"\nindicators:\n  - Income\n  - Air Quality\n")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"catalog", path})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("catalog: %v\n%s", err, out.String())
	}
	got := out.String()
	for _, want := range []string{"catalog 2025.2 (2 indicators)", "  Air Quality\n  Income\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestCatalogCommand_RejectsInvalidFile(t *testing.T) {
	path := writeConfig(t, "version: \"x\"\nindicators:\n  - Income\n  - Income\n")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"catalog", path})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("catalog accepted duplicate names")
	}
}
