package savegame

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/appengine-ltd/skyweather/internal/weather"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS weather_slots (
	slot TEXT PRIMARY KEY,
	format INTEGER NOT NULL,
	saved_at INTEGER NOT NULL,
	state_blob BLOB NOT NULL,
	state_hash TEXT NOT NULL
);
`

// SlotInfo describes one saved slot.
type SlotInfo struct {
	Name    string
	Format  int
	SavedAt time.Time
	Hash    string
}

// Store keeps weather records in named slots of a SQLite database.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// Open opens (or creates) the database at dsn. Use "file::memory:" for a
// throwaway store.
func Open(ctx context.Context, dsn string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open save database: %w", err)
	}
	// A single connection keeps in-memory databases shared.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create save schema: %w", err)
	}
	return &Store{db: db, logger: logger, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes state into slot, replacing any earlier record.
func (s *Store) Save(ctx context.Context, slot string, state weather.State) error {
	blob, err := Pack(state)
	if err != nil {
		return err
	}
	return s.put(ctx, slot, blob)
}

func (s *Store) put(ctx context.Context, slot string, blob Blob) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO weather_slots (slot, format, saved_at, state_blob, state_hash)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			format = excluded.format,
			saved_at = excluded.saved_at,
			state_blob = excluded.state_blob,
			state_hash = excluded.state_hash`,
		slot, blob.Format, s.now().Unix(), blob.Data, blob.Checksum)
	if err != nil {
		return fmt.Errorf("save slot %q: %w", slot, err)
	}
	s.logger.Debug("weather saved", zap.String("slot", slot), zap.Int("bytes", len(blob.Data)))
	return nil
}

// Load reads slot. A missing slot or a record older than
// MinCompatibleFormat returns an error matching ErrNoRecord.
func (s *Store) Load(ctx context.Context, slot string) (weather.State, error) {
	var blob Blob
	err := s.db.QueryRowContext(ctx,
		`SELECT format, state_blob, state_hash FROM weather_slots WHERE slot = ?`, slot).
		Scan(&blob.Format, &blob.Data, &blob.Checksum)
	if errors.Is(err, sql.ErrNoRows) {
		return weather.State{}, fmt.Errorf("%w: slot %q", ErrNoRecord, slot)
	}
	if err != nil {
		return weather.State{}, fmt.Errorf("load slot %q: %w", slot, err)
	}

	state, err := Unpack(blob)
	if errors.Is(err, ErrStaleFormat) {
		s.logger.Info("discarding stale weather record", zap.String("slot", slot), zap.Int("format", blob.Format))
	}
	if err != nil {
		return weather.State{}, fmt.Errorf("load slot %q: %w", slot, err)
	}
	return state, nil
}

// Slots lists saved slots, newest first.
func (s *Store) Slots(ctx context.Context) ([]SlotInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT slot, format, saved_at, state_hash FROM weather_slots ORDER BY saved_at DESC, slot`)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var out []SlotInfo
	for rows.Next() {
		var (
			info    SlotInfo
			savedAt int64
		)
		if err := rows.Scan(&info.Name, &info.Format, &savedAt, &info.Hash); err != nil {
			return nil, fmt.Errorf("list slots: %w", err)
		}
		info.SavedAt = time.Unix(savedAt, 0)
		out = append(out, info)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, slot string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM weather_slots WHERE slot = ?`, slot); err != nil {
		return fmt.Errorf("delete slot %q: %w", slot, err)
	}
	return nil
}
