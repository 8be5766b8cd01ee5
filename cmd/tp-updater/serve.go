package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dvrpc/tp-updater/internal/catalog"
	"github.com/dvrpc/tp-updater/internal/httpserver"
	"github.com/dvrpc/tp-updater/internal/metrics"
	"github.com/dvrpc/tp-updater/internal/snapshot"
	"github.com/dvrpc/tp-updater/internal/store"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the overlay API server",
	Long: `Start the overlay API server.

The server applies pending migrations, then serves the indicator overlay API
under the configured base path until interrupted (Ctrl+C) or sent SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return runServer(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// openStore loads the catalog and opens the configured overlay store.
func openStore(cfg appConfig) (*store.Store, *catalog.Catalog, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading catalog: %w", err)
	}
	st, err := store.Open(cfg.DBDriver, cfg.DBDSN, store.Options{
		Catalog:      cat,
		QueryTimeout: cfg.QueryTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s store: %w", cfg.DBDriver, err)
	}
	return st, cat, nil
}

func snapshotConfig(cfg appConfig) snapshot.Config {
	return snapshot.Config{
		Enabled:  cfg.SnapshotEnabled,
		Interval: cfg.SnapshotInterval,
		Dir:      cfg.SnapshotDir,
		KeepLast: cfg.SnapshotKeep,
	}
}

// runServer serves the overlay API until a shutdown signal arrives.
func runServer(cfg appConfig) error {
	cleanupLogger := configureRuntimeLogger("tp-updater")
	defer cleanupLogger()

	st, cat, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	snapshots, err := snapshot.NewManager(st, snapshotConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to initialize snapshots: %w", err)
	}
	if snapshots != nil {
		snapshots.Start()
		defer snapshots.Stop()
	}

	var gatherer prometheus.Gatherer
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		if err := metrics.Register(reg); err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}
		gatherer = reg
	}

	apiServer := httpserver.NewServer(httpserver.Config{
		Addr:     cfg.APIAddr,
		BasePath: cfg.BasePath,
		Catalog:  cat,
		Gatherer: gatherer,
	}, st)
	if err := apiServer.Start(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}
	defer apiServer.Stop()
	log.Printf("server: listening on %s%s (catalog %s, %d indicators)", cfg.APIAddr, cfg.BasePath, cat.Version(), cat.Len())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	printStartupBanner(cfg, cat)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		select {
		case <-sigCh:
			fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	// Force exit if shutdown stalls or a second signal arrives.
	g.Go(func() error {
		<-gctx.Done()
		go func() {
			deadline := time.NewTimer(10 * time.Second)
			defer deadline.Stop()
			select {
			case <-sigCh:
				fmt.Println("\nForce shutdown.")
			case <-deadline.C:
				fmt.Println("Shutdown timed out, forcing exit.")
			}
			os.Exit(1)
		}()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("server: errgroup exited with error: %v", err)
	}
	return nil
}

// configureRuntimeLogger sends the standard logger to
// ~/.local/state/tp-updater/<name>.log, falling back to stderr.
func configureRuntimeLogger(name string) func() {
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

	f, err := os.OpenFile(filepath.Join(logDir, name+".log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}

func printStartupBanner(cfg appConfig, cat *catalog.Catalog) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	separator := dim.Render("    ─────────────────────────────────")

	lines := []string{
		"",
		"    " + cyan.Bold(true).Render("Tracking Progress Updater") + " " + dim.Render("v"+version),
		"",
		separator,
		"",
		bold.Render("    API"),
		"",
		fmt.Sprintf("    %s  Indicators     %s", check, cyan.Render("http://"+cfg.APIAddr+cfg.BasePath+"/indicators")),
		fmt.Sprintf("    %s  Health         %s", check, cyan.Render("http://"+cfg.APIAddr+"/api/health")),
	}
	if cfg.MetricsEnabled {
		lines = append(lines, fmt.Sprintf("    %s  Metrics        %s", check, cyan.Render("http://"+cfg.APIAddr+"/metrics")))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Metrics        %s", dot, dim.Render("disabled")))
	}

	lines = append(lines,
		"",
		bold.Render("    Storage"),
		"",
		fmt.Sprintf("    %s  Driver         %s", check, dim.Render(cfg.DBDriver)),
		fmt.Sprintf("    %s  Database       %s", check, dim.Render(describeDSN(cfg))),
		fmt.Sprintf("    %s  Catalog        %s", check, dim.Render(fmt.Sprintf("%s (%d indicators)", cat.Version(), cat.Len()))),
	)
	if cfg.SnapshotEnabled {
		lines = append(lines, fmt.Sprintf("    %s  Snapshots      %s", check, dim.Render(shortenPath(cfg.SnapshotDir))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Snapshots      %s", dot, dim.Render("disabled")))
	}
	lines = append(lines,
		"",
		bold.Render("    Config"),
		"",
	)
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}

	lines = append(lines,
		"",
		separator,
		"",
		"    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"),
		"",
	)

	fmt.Println(strings.Join(lines, "\n"))
}

// describeDSN hides Postgres credentials in the banner.
func describeDSN(cfg appConfig) string {
	if cfg.DBDriver != store.DriverPostgres {
		return shortenPath(cfg.DBDSN)
	}
	if at := strings.LastIndex(cfg.DBDSN, "@"); at >= 0 {
		return "postgres://…" + cfg.DBDSN[at:]
	}
	return "postgres"
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
