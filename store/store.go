// Package store persists the event log, price history and snapshot cache in
// a single sqlite file. The events table is append-only: corrections and
// deletions enter as new rows, never as updates to stored payloads.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/coinfolio/coinfolio"
)

type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open opens (or creates) the sqlite database at path and applies the schema.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	// WAL mode for concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("schema migration: %w", err)
	}

	return &Store{
		db:     db,
		logger: logger.With().Str("component", "store").Logger(),
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// AppendEvent appends one event to the log. Event ids are immutable: a second
// insert under the same id is an error, corrections go in as new events.
func (s *Store) AppendEvent(ctx context.Context, ev coinfolio.Event) error {
	return s.AppendEvents(ctx, ev)
}

// AppendEvents appends events to the log in one transaction.
func (s *Store) AppendEvents(ctx context.Context, events ...coinfolio.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, ev := range events {
		var payload bytes.Buffer
		if err := coinfolio.EncodeEvent(&payload, ev); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO events (event_id, kind, timestamp, revision, replaces, deleted, payload)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ev.ID(), string(ev.What()), ev.When().UTC(), coinfolio.Revision(ev).UTC(),
			coinfolio.Replaces(ev), coinfolio.IsDeleted(ev), payload.String(),
		); err != nil {
			return fmt.Errorf("appending event %s: %w", ev.ID(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Debug().Int("count", len(events)).Msg("events appended")
	return nil
}

// LoadEvents loads the raw event log, ordered by timestamp then id. The log
// is unresolved: callers collapse it with coinfolio.ActiveEvents.
func (s *Store) LoadEvents(ctx context.Context) ([]coinfolio.Event, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM events ORDER BY timestamp, event_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var log bytes.Buffer
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		log.WriteString(payload)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return coinfolio.DecodeEvents(&log)
}

// Digest summarizes the stored log for staleness checks: the event count and
// the highest revision timestamp. A cached snapshot built under an older
// digest must be rebuilt.
type Digest struct {
	Events       int
	LastRevision time.Time
}

func (s *Store) Digest(ctx context.Context) (Digest, error) {
	var d Digest
	var last sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MAX(revision) FROM events`).Scan(&d.Events, &last)
	if err != nil {
		return Digest{}, err
	}
	if last.Valid {
		d.LastRevision = last.Time.UTC()
	}
	return d, nil
}

// UpsertPrices stores price points, replacing any existing observation for
// the same asset and timestamp.
func (s *Store) UpsertPrices(ctx context.Context, points []coinfolio.PricePoint) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range points {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO prices (asset_id, currency, timestamp, price)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(asset_id, timestamp) DO UPDATE SET
				currency = excluded.currency,
				price = excluded.price`,
			p.AssetID, p.Price.Currency(), p.Time.UTC(), p.Price.String(),
		); err != nil {
			return fmt.Errorf("upserting price %s@%s: %w", p.AssetID, p.Time, err)
		}
	}
	return tx.Commit()
}

// LoadPrices loads all stored price points, ordered by asset then time.
func (s *Store) LoadPrices(ctx context.Context) ([]coinfolio.PricePoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT asset_id, currency, timestamp, price
		FROM prices ORDER BY asset_id, timestamp`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []coinfolio.PricePoint
	for rows.Next() {
		var assetID, currency, price string
		var ts time.Time
		if err := rows.Scan(&assetID, &currency, &ts, &price); err != nil {
			return nil, err
		}
		m, err := coinfolio.ParseMoney(price, currency)
		if err != nil {
			return nil, fmt.Errorf("stored price %s@%s: %w", assetID, ts, err)
		}
		points = append(points, coinfolio.PricePoint{AssetID: assetID, Time: ts.UTC(), Price: m})
	}
	return points, rows.Err()
}

// ReplaceSnapshots replaces the cached snapshot suffix from the given day
// onward. Earlier days are untouched, so an incremental rebuild only rewrites
// the days its new events can affect.
func (s *Store) ReplaceSnapshots(ctx context.Context, from coinfolio.Date, snapshots []coinfolio.PortfolioSnapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE date >= ?`, from.String()); err != nil {
		return err
	}
	for _, snap := range snapshots {
		payload, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("encoding snapshot %s: %w", snap.Date, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO snapshots (date, payload) VALUES (?, ?)`,
			snap.Date.String(), string(payload),
		); err != nil {
			return fmt.Errorf("storing snapshot %s: %w", snap.Date, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Debug().Str("from", from.String()).Int("count", len(snapshots)).Msg("snapshot suffix replaced")
	return nil
}

// LoadSnapshots loads the cached snapshots between from and to inclusive,
// ordered by day.
func (s *Store) LoadSnapshots(ctx context.Context, from, to coinfolio.Date) ([]coinfolio.PortfolioSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM snapshots
		WHERE date >= ? AND date <= ?
		ORDER BY date`, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []coinfolio.PortfolioSnapshot
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var snap coinfolio.PortfolioSnapshot
		if err := json.Unmarshal([]byte(payload), &snap); err != nil {
			return nil, fmt.Errorf("decoding stored snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// LastSnapshotDate returns the most recent cached snapshot day, if any.
func (s *Store) LastSnapshotDate(ctx context.Context) (coinfolio.Date, bool, error) {
	var date sql.NullString
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(date) FROM snapshots`).Scan(&date); err != nil {
		return coinfolio.Date{}, false, err
	}
	if !date.Valid {
		return coinfolio.Date{}, false, nil
	}
	d, err := coinfolio.ParseDate(date.String)
	if err != nil {
		return coinfolio.Date{}, false, err
	}
	return d, true, nil
}
