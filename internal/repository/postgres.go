package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"haggle-shop/internal/model"
)

// PostgresRepository stores saves as JSONB rows and mirrors each slot's
// ledger into ledger_entries for reporting.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgresRepository instance.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Migrate creates the tables if they are missing.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS save_slots (
			slot VARCHAR(255) PRIMARY KEY,
			version INT NOT NULL,
			data JSONB NOT NULL,
			saved_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create save_slots: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS ledger_entries (
			id VARCHAR(64) PRIMARY KEY,
			slot VARCHAR(255) NOT NULL REFERENCES save_slots(slot) ON DELETE CASCADE,
			day INT NOT NULL,
			type VARCHAR(16) NOT NULL,
			category VARCHAR(32) NOT NULL,
			amount BIGINT NOT NULL,
			description TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create ledger_entries: %w", err)
	}
	return nil
}

// Save upserts the slot and appends ledger entries not yet mirrored.
func (r *PostgresRepository) Save(ctx context.Context, slot string, state *model.PlayerState) error {
	blob, err := Encode(slot, state, time.Now())
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	const upsert = `
		INSERT INTO save_slots (slot, version, data, saved_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (slot) DO UPDATE SET
			version = EXCLUDED.version,
			data = EXCLUDED.data,
			saved_at = NOW()
	`
	if _, err := tx.Exec(ctx, upsert, slot, model.SaveVersion, blob); err != nil {
		return fmt.Errorf("failed to save slot %q: %w", slot, err)
	}

	var lastDay int
	err = tx.QueryRow(ctx, `SELECT COALESCE(MAX(day), 0) FROM ledger_entries WHERE slot = $1`, slot).Scan(&lastDay)
	if err != nil {
		return fmt.Errorf("failed to read mirrored ledger of %q: %w", slot, err)
	}

	if pending := pendingLedger(state.Financials, lastDay); len(pending) > 0 {
		batch := &pgx.Batch{}
		for _, rec := range pending {
			batch.Queue(`
				INSERT INTO ledger_entries (id, slot, day, type, category, amount, description)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				ON CONFLICT (id) DO NOTHING
			`, rec.ID, slot, rec.Day, rec.Type, rec.Category, rec.Amount, rec.Description)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to mirror ledger of %q: %w", slot, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit save of %q: %w", slot, err)
	}
	return nil
}

// pendingLedger returns the records a save still has to mirror. Days before
// lastDay are already stored; lastDay itself may be partial, so it is resent
// and duplicates are dropped by the id conflict.
func pendingLedger(records []model.FinancialRecord, lastDay int) []model.FinancialRecord {
	var pending []model.FinancialRecord
	for _, rec := range records {
		if rec.Day >= lastDay {
			pending = append(pending, rec)
		}
	}
	return pending
}

// Load reads and decodes the save of slot.
func (r *PostgresRepository) Load(ctx context.Context, slot string) (*model.SaveData, error) {
	var blob []byte
	err := r.pool.QueryRow(ctx, `SELECT data FROM save_slots WHERE slot = $1`, slot).Scan(&blob)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSaveNotFound
		}
		return nil, fmt.Errorf("failed to load slot %q: %w", slot, err)
	}
	return Decode(blob)
}

// Exists reports whether slot holds a save.
func (r *PostgresRepository) Exists(ctx context.Context, slot string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM save_slots WHERE slot = $1)`, slot).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slot %q: %w", slot, err)
	}
	return exists, nil
}

// LedgerBySlot returns the mirrored ledger of slot, latest day first.
func (r *PostgresRepository) LedgerBySlot(ctx context.Context, slot string, limit int) ([]model.FinancialRecord, error) {
	const query = `
		SELECT id, day, type, category, amount, COALESCE(description, '')
		FROM ledger_entries
		WHERE slot = $1
		ORDER BY day DESC, id
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, slot, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}
	defer rows.Close()

	var records []model.FinancialRecord
	for rows.Next() {
		var rec model.FinancialRecord
		if err := rows.Scan(&rec.ID, &rec.Day, &rec.Type, &rec.Category, &rec.Amount, &rec.Description); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger: %w", err)
	}

	return records, nil
}

// DailyNetProfit aggregates the mirrored ledger of slot per day.
func (r *PostgresRepository) DailyNetProfit(ctx context.Context, slot string) ([]model.DailyFinancials, error) {
	const query = `
		SELECT day,
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0)::BIGINT AS income,
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)::BIGINT AS expense
		FROM ledger_entries
		WHERE slot = $1
		GROUP BY day
		ORDER BY day
	`

	rows, err := r.pool.Query(ctx, query, slot)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily profit: %w", err)
	}
	defer rows.Close()

	var days []model.DailyFinancials
	for rows.Next() {
		var d model.DailyFinancials
		if err := rows.Scan(&d.Day, &d.Income, &d.Expense); err != nil {
			return nil, fmt.Errorf("failed to scan daily profit: %w", err)
		}
		d.NetProfit = d.Income - d.Expense
		days = append(days, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily profit: %w", err)
	}

	return days, nil
}

// Close releases the pool.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}
