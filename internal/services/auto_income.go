package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"finas/internal/core"
	"finas/internal/store"
)

// Salary lands on the 25th, so injection only becomes possible from that day
// of the month, and only from 2024 on.
const (
	autoIncomeMinYear = 2024
	autoIncomeMinDay  = 25
)

// AutoIncomeInjector records the monthly salary at the start of each
// financial cycle. Evaluation is level-triggered: every call checks the
// current state, so missed evaluations catch up on the next one.
type AutoIncomeInjector struct {
	txs      store.TransactionStore
	settings store.SettingsStore
}

func NewAutoIncomeInjector(txs store.TransactionStore, settings store.SettingsStore) *AutoIncomeInjector {
	return &AutoIncomeInjector{
		txs:      txs,
		settings: settings,
	}
}

// AutoIncomeID is the deterministic transaction ID for a cycle's salary
// record. One cycle maps to one ID, which makes injection idempotent.
func AutoIncomeID(cycle string) string {
	return "auto-income-" + strings.ReplaceAll(cycle, " ", "-")
}

// Evaluate injects the salary transaction for the cycle containing now if
// all conditions hold. It reports whether a new transaction was recorded.
func (a *AutoIncomeInjector) Evaluate(ctx context.Context, now time.Time) (bool, error) {
	settings, err := a.settings.Settings(ctx)
	if err != nil {
		return false, fmt.Errorf("load settings: %w", err)
	}
	if !settings.AutoIncomeEnabled {
		return false, nil
	}

	if now.Year() < autoIncomeMinYear || now.Day() < autoIncomeMinDay {
		return false, nil
	}

	cycle := core.CurrentCycleLabel(now)

	transactions, err := a.txs.List(ctx)
	if err != nil {
		return false, fmt.Errorf("list transactions: %w", err)
	}
	for _, t := range transactions {
		if t.IsAuto && t.Type == core.Income && core.CycleOf(t.Date) == cycle {
			return false, nil
		}
	}

	t := core.Transaction{
		ID:          AutoIncomeID(cycle),
		Date:        core.DateOf(now),
		Description: "Gaji Otomatis - Siklus Baru",
		SubCategory: "Gaji Tetap",
		Amount:      settings.AutoIncomeAmount,
		Type:        core.Income,
		Category:    core.CategorySalary,
		IsAuto:      true,
	}

	if err := a.txs.Append(ctx, t); err != nil {
		// A concurrent evaluation or an earlier run already recorded it.
		if errors.Is(err, core.ErrDuplicateID) {
			return false, nil
		}
		return false, fmt.Errorf("record auto income: %w", err)
	}

	slog.InfoContext(ctx, "Injected automatic income",
		"cycle", cycle,
		"id", t.ID,
		"amount", t.Amount)

	return true, nil
}
