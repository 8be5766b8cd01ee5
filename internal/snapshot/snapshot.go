// Package snapshot keeps rolling local copies of the embedded overlay
// database.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	defaultInterval = 24 * time.Hour
	defaultKeepLast = 14

	filePrefix = "tp-updater-"
	fileSuffix = ".duckdb"
)

// ErrNoDatabaseFile is returned for stores without an on-disk file
// (in-memory DuckDB, or Postgres which has its own backup tooling).
var ErrNoDatabaseFile = errors.New("snapshot: store has no database file")

// Config controls periodic snapshots.
type Config struct {
	Enabled  bool
	Interval time.Duration
	Dir      string
	KeepLast int
	Clock    func() time.Time
}

// Snapshotter is implemented by stores that can copy their database file.
type Snapshotter interface {
	SnapshotTo(dstPath string) error
}

// Manager takes a snapshot at start and then on every interval.
type Manager struct {
	store Snapshotter
	cfg   Config

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager validates cfg and returns a manager. It returns nil when
// snapshots are disabled. Call Start to begin the loop.
func NewManager(store Snapshotter, cfg Config) (*Manager, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if store == nil {
		return nil, fmt.Errorf("snapshot: nil store")
	}
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, fmt.Errorf("snapshot: dir is required when snapshots are enabled")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.KeepLast <= 0 {
		cfg.KeepLast = defaultKeepLast
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("snapshot: create dir: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		store:  store,
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Start takes a snapshot immediately and schedules the rest.
func (m *Manager) Start() {
	if _, err := m.RunOnce(); err != nil {
		log.Printf("snapshot: startup snapshot failed: %v", err)
	}
	m.wg.Add(1)
	go m.loop()
}

func (m *Manager) loop() {
	defer m.wg.Done()
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := m.RunOnce(); err != nil {
				log.Printf("snapshot: periodic snapshot failed: %v", err)
			}
		case <-m.ctx.Done():
			return
		}
	}
}

// RunOnce writes one snapshot and prunes copies beyond KeepLast. It returns
// the path written.
func (m *Manager) RunOnce() (string, error) {
	name := filePrefix + m.cfg.Clock().UTC().Format("20060102-150405") + fileSuffix
	dst := filepath.Join(m.cfg.Dir, name)

	if err := m.store.SnapshotTo(dst); err != nil {
		return "", err
	}
	log.Printf("snapshot: wrote %s", dst)

	if err := prune(m.cfg.Dir, m.cfg.KeepLast); err != nil {
		return dst, fmt.Errorf("snapshot: prune: %w", err)
	}
	return dst, nil
}

// Stop ends the loop and waits for an in-progress snapshot.
func (m *Manager) Stop() {
	m.cancel()
	m.wg.Wait()
}

func prune(dir string, keepLast int) error {
	matches, err := filepath.Glob(filepath.Join(dir, filePrefix+"*"+fileSuffix))
	if err != nil {
		return err
	}
	if len(matches) <= keepLast {
		return nil
	}

	// Names embed a sortable UTC timestamp; newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))

	for _, old := range matches[keepLast:] {
		if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
