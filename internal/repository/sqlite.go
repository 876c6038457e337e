package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"haggle-shop/internal/model"
)

// SQLiteRepository stores saves in a local SQLite file.
type SQLiteRepository struct {
	conn *sqlx.DB
}

type saveRow struct {
	Slot    string `db:"slot"`
	Version int    `db:"version"`
	SavedAt string `db:"saved_at"`
	Data    string `db:"data"`
}

// OpenSQLite opens or creates the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	r := &SQLiteRepository{conn: conn}
	if err := r.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return r, nil
}

func (r *SQLiteRepository) migrate() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS save_slots (
		slot TEXT PRIMARY KEY,
		version INTEGER NOT NULL,
		saved_at TEXT NOT NULL,
		data TEXT NOT NULL
	);
	`
	_, err := r.conn.Exec(schema)
	return err
}

// Save upserts the save of slot.
func (r *SQLiteRepository) Save(ctx context.Context, slot string, state *model.PlayerState) error {
	now := time.Now().UTC()
	blob, err := Encode(slot, state, now)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO save_slots (slot, version, saved_at, data)
		VALUES (:slot, :version, :saved_at, :data)
		ON CONFLICT(slot) DO UPDATE SET
			version = excluded.version,
			saved_at = excluded.saved_at,
			data = excluded.data
	`
	row := saveRow{Slot: slot, Version: model.SaveVersion, SavedAt: now.Format(time.RFC3339Nano), Data: string(blob)}
	if _, err := r.conn.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to save slot %q: %w", slot, err)
	}
	return nil
}

// Load reads and decodes the save of slot.
func (r *SQLiteRepository) Load(ctx context.Context, slot string) (*model.SaveData, error) {
	var row saveRow
	err := r.conn.GetContext(ctx, &row, `SELECT slot, version, saved_at, data FROM save_slots WHERE slot = ?`, slot)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSaveNotFound
		}
		return nil, fmt.Errorf("failed to load slot %q: %w", slot, err)
	}
	return Decode([]byte(row.Data))
}

// Exists reports whether slot holds a save.
func (r *SQLiteRepository) Exists(ctx context.Context, slot string) (bool, error) {
	var n int
	if err := r.conn.GetContext(ctx, &n, `SELECT COUNT(*) FROM save_slots WHERE slot = ?`, slot); err != nil {
		return false, fmt.Errorf("failed to check slot %q: %w", slot, err)
	}
	return n > 0, nil
}

// Slots lists the stored slot names.
func (r *SQLiteRepository) Slots(ctx context.Context) ([]string, error) {
	var slots []string
	if err := r.conn.SelectContext(ctx, &slots, `SELECT slot FROM save_slots ORDER BY slot`); err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return slots, nil
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	return r.conn.Close()
}
