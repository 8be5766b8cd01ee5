package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dvrpc/tp-updater/internal/catalog"
	"github.com/dvrpc/tp-updater/internal/client"
	"github.com/dvrpc/tp-updater/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var baseURL string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/tp-updater/config.yml)")
	flag.StringVar(&baseURL, "url", "", "override overlay API base URL")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("tp-updater-tui - Tracking Progress Updater\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadCLIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}

	if err := runTUI(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cfg cliConfig) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	c := client.New(cfg.BaseURL, cfg.RequestTimeout)
	cat := resolveCatalog(c, cfg)

	page := tui.NewUpdaterModel(c, cat, cfg.RequestTimeout)
	app := tui.NewApp(page)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// resolveCatalog prefers a local catalog file, then the server's catalog,
// then the one built into the binary.
func resolveCatalog(c *client.Client, cfg cliConfig) *catalog.Catalog {
	if cfg.CatalogPath != "" {
		cat, err := catalog.Load(cfg.CatalogPath)
		if err == nil {
			return cat
		}
		log.Printf("tui: catalog file: %v (trying server)", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()
	cat, err := c.Catalog(ctx)
	if err != nil {
		log.Printf("tui: fetch catalog: %v (using built-in %s)", err, catalog.Default().Version())
		return catalog.Default()
	}
	return cat
}

// configureRuntimeLogger keeps log output off the terminal while the TUI owns it.
func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "tp-updater")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	f, err := os.OpenFile(filepath.Join(logDir, "tp-updater-tui.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}
