package store

import (
	"context"
	"errors"

	"finas/internal/core"
)

var ErrNotFound = errors.New("transaction not found")

// Ports for transaction and settings persistence.
type (
	// TransactionStore is the source of truth for transaction records.
	// List returns records newest first; Append rejects duplicate IDs with
	// core.ErrDuplicateID.
	TransactionStore interface {
		Append(ctx context.Context, t core.Transaction) error
		Delete(ctx context.Context, id string) error
		List(ctx context.Context) ([]core.Transaction, error)
	}

	// SettingsStore persists the singleton application settings. Settings
	// returns defaults when nothing has been saved yet.
	SettingsStore interface {
		Settings(ctx context.Context) (core.AppSettings, error)
		SaveSettings(ctx context.Context, s core.AppSettings) error
	}
)
