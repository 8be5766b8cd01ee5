package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dvrpc/tp-updater/internal/metrics"
	"github.com/dvrpc/tp-updater/internal/model"
)

var _ model.OverlayStore = (*Store)(nil)

const (
	upsertOverlaySQL = `INSERT INTO updates (indicator, updated) VALUES ($1, $2)
		ON CONFLICT (indicator) DO UPDATE SET updated = excluded.updated`
	deleteOverlaySQL = `DELETE FROM updates WHERE indicator = $1`
	listOverlaysSQL  = `SELECT indicator FROM updates WHERE updated >= $1 ORDER BY indicator`
	recordSQL        = `SELECT indicator, updated FROM updates WHERE indicator = $1`
)

// Add marks indicator as updated now. Repeated adds only move the timestamp.
func (s *Store) Add(ctx context.Context, indicator string) error {
	if !s.catalog.Contains(indicator) {
		return fmt.Errorf("%w: %q", model.ErrInvalidIndicator, indicator)
	}
	defer observe("add", time.Now())

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, upsertOverlaySQL, indicator, s.now().UTC()); err != nil {
		log.Printf("store: add %q: %v", indicator, err)
		return model.Unavailable("add", err)
	}
	return nil
}

// Remove deletes the overlay for indicator. It returns model.ErrNotFound when
// no record exists, so callers can tell "nothing to remove" from "removed".
func (s *Store) Remove(ctx context.Context, indicator string) error {
	defer observe("remove", time.Now())

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, deleteOverlaySQL, indicator)
	if err != nil {
		log.Printf("store: remove %q: %v", indicator, err)
		return model.Unavailable("remove", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Unavailable("remove", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", model.ErrNotFound, indicator)
	}
	return nil
}

// List returns the indicators marked within the expiry window ending at now,
// sorted ascending. The boundary is inclusive.
func (s *Store) List(ctx context.Context, now time.Time) ([]string, error) {
	defer observe("list", time.Now())

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, listOverlaysSQL, model.WindowStart(now).UTC())
	if err != nil {
		log.Printf("store: list: %v", err)
		return nil, model.Unavailable("list", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, model.Unavailable("list scan", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, model.Unavailable("list", err)
	}
	return names, nil
}

// Record returns the stored row for indicator regardless of the expiry window.
func (s *Store) Record(ctx context.Context, indicator string) (model.OverlayRecord, error) {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec model.OverlayRecord
	err := s.db.QueryRowContext(ctx, recordSQL, indicator).Scan(&rec.Indicator, &rec.Updated)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, fmt.Errorf("%w: %q", model.ErrNotFound, indicator)
	}
	if err != nil {
		return rec, model.Unavailable("record", err)
	}
	return rec, nil
}

func observe(op string, start time.Time) {
	metrics.ObserveStore(op, time.Since(start))
}
