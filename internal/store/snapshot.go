package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dvrpc/tp-updater/internal/snapshot"
)

// DBPath returns the DuckDB database file, or "" when there is none.
func (s *Store) DBPath() string {
	return s.dbPath
}

// SnapshotTo checkpoints the DuckDB database and copies its file to dstPath.
// The checkpoint holds the write lock; the copy does not.
func (s *Store) SnapshotTo(dstPath string) error {
	if s.dbPath == "" {
		return snapshot.ErrNoDatabaseFile
	}
	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	s.mu.Lock()
	_, err := s.db.Exec("CHECKPOINT")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}

	if err := copyFile(s.dbPath, dstPath); err != nil {
		return fmt.Errorf("copy database file: %w", err)
	}
	return nil
}

// copyFile writes through a temp file so a partial copy never has the final name.
func copyFile(srcPath, dstPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	tmp := dstPath + ".tmp"
	dst, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := dst.Sync(); err != nil {
		dst.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dstPath)
}
