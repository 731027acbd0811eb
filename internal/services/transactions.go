package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"

	"finas/internal/amqp"
	"finas/internal/core"
	"finas/internal/store"
)

// TransactionService orchestrates transaction and settings operations across
// the local store and AMQP. Local writes come first; a failed publish never
// fails the request.
type TransactionService struct {
	txs        store.TransactionStore
	settings   store.SettingsStore
	amqpClient *amqp.Client
}

func NewTransactionService(txs store.TransactionStore, settings store.SettingsStore, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		txs:        txs,
		settings:   settings,
		amqpClient: amqpClient,
	}
}

// Create assigns an ID, validates and saves the transaction, then publishes
// a sync message.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.ID == "" {
		t.ID = newTransactionID()
	}
	if t.Type == core.Income && t.SubCategory == "" {
		t.SubCategory = core.IncomeSubCategory
	}

	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if err := s.txs.Append(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publishSync(ctx, "transaction_created")

	return t, nil
}

// Delete removes a transaction locally and publishes a sync message.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.txs.Delete(ctx, id); err != nil {
		return err
	}

	s.publishSync(ctx, "transaction_deleted")

	return nil
}

// List returns all transactions, newest first. A read failure degrades to an
// empty list so the dashboard always renders.
func (s *TransactionService) List(ctx context.Context) []core.Transaction {
	items, err := s.txs.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list transactions, serving empty list", "error", err)
		return []core.Transaction{}
	}
	if items == nil {
		return []core.Transaction{}
	}
	return items
}

// Settings returns the stored settings, falling back to defaults on error.
func (s *TransactionService) Settings(ctx context.Context) core.AppSettings {
	settings, err := s.settings.Settings(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load settings, using defaults", "error", err)
		return core.DefaultSettings()
	}
	return settings
}

// SaveSettings validates and stores settings, then publishes a sync message.
func (s *TransactionService) SaveSettings(ctx context.Context, settings core.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := s.settings.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	s.publishSync(ctx, "settings_updated")

	return nil
}

func (s *TransactionService) publishSync(ctx context.Context, reason string) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message", "reason", reason)
		return
	}

	settings, err := s.settings.Settings(ctx)
	if err != nil || settings.SyncID == "" {
		return
	}

	if err := s.amqpClient.PublishBundleSync(ctx, settings.SyncID, reason); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"reason", reason, "error", err)
		// Don't fail the request - the data is saved locally
	}
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newTransactionID returns a short random ID in the style of the IDs the
// web client generates.
func newTransactionID() string {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("read random bytes: %v", err))
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(buf)
}
