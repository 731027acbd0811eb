package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"finas/internal/core"
	"finas/internal/store"

	_ "modernc.org/sqlite"
)

// Repository is the SQLite-backed transaction and settings store.
type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements store.TransactionStore. Duplicate IDs are reported as
// core.ErrDuplicateID; the auto-income injector leans on that for
// idempotence across restarts.
func (r *Repository) Append(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO transactions (id, date, description, sub_category, amount, type, category, is_auto)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Date.String(), t.Description, t.SubCategory, t.Amount, string(t.Type), string(t.Category), boolToInt(t.IsAuto))
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert transaction rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrDuplicateID
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", t.ID,
		"date", t.Date.String(),
		"amount", t.Amount,
		"type", t.Type,
		"category", t.Category)

	return nil
}

// Delete implements store.TransactionStore.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction deleted from SQLite", "id", id)
	return nil
}

// List implements store.TransactionStore, newest record first.
func (r *Repository) List(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, description, sub_category, amount, type, category, is_auto
		FROM transactions
		ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t       core.Transaction
			dateStr string
			typ     string
			cat     string
			isAuto  int64
		)
		if err := rows.Scan(&t.ID, &dateStr, &t.Description, &t.SubCategory, &t.Amount, &typ, &cat, &isAuto); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		d, err := core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", dateStr, err)
		}
		t.Date = d
		t.Type = core.TransactionType(typ)
		t.Category = core.Category(cat)
		t.IsAuto = isAuto != 0
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Settings implements store.SettingsStore. An empty table yields the
// first-run defaults, never an error.
func (r *Repository) Settings(ctx context.Context) (core.AppSettings, error) {
	var (
		s       core.AppSettings
		enabled int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT auto_income_amount, auto_income_enabled, initial_savings, sync_id
		FROM settings WHERE id = 1`).
		Scan(&s.AutoIncomeAmount, &enabled, &s.InitialSavings, &s.SyncID)
	if err == sql.ErrNoRows {
		return core.DefaultSettings(), nil
	}
	if err != nil {
		return core.AppSettings{}, fmt.Errorf("query settings: %w", err)
	}
	s.AutoIncomeEnabled = enabled != 0
	return s, nil
}

// SaveSettings implements store.SettingsStore.
func (r *Repository) SaveSettings(ctx context.Context, s core.AppSettings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (id, auto_income_amount, auto_income_enabled, initial_savings, sync_id)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			auto_income_amount = excluded.auto_income_amount,
			auto_income_enabled = excluded.auto_income_enabled,
			initial_savings = excluded.initial_savings,
			sync_id = excluded.sync_id`,
		s.AutoIncomeAmount, boolToInt(s.AutoIncomeEnabled), s.InitialSavings, s.SyncID)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	slog.InfoContext(ctx, "Settings saved to SQLite",
		"auto_income_amount", s.AutoIncomeAmount,
		"auto_income_enabled", s.AutoIncomeEnabled)
	return nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
