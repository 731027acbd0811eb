package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finas/internal/amqp"
	"finas/internal/cloud"
	"finas/internal/store"
)

// CloudSyncProcessor assembles the local dataset into a bundle and moves it
// across the cloud boundary. It runs in the worker, not in the web server.
type CloudSyncProcessor struct {
	txs      store.TransactionStore
	settings store.SettingsStore
	syncer   cloud.Syncer
}

func NewCloudSyncProcessor(txs store.TransactionStore, settings store.SettingsStore, syncer cloud.Syncer) *CloudSyncProcessor {
	return &CloudSyncProcessor{
		txs:      txs,
		settings: settings,
		syncer:   syncer,
	}
}

// PushBundle reads the full local dataset and pushes it under the
// configured sync ID. Without a sync ID the push is a no-op.
func (p *CloudSyncProcessor) PushBundle(ctx context.Context) error {
	settings, err := p.settings.Settings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if settings.SyncID == "" {
		slog.InfoContext(ctx, "No sync ID configured, skipping bundle push")
		return nil
	}

	transactions, err := p.txs.List(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	bundle := cloud.Bundle{
		Transactions: transactions,
		Settings:     settings,
		LastUpdated:  time.Now().UTC(),
	}

	if err := p.syncer.Push(ctx, settings.SyncID, bundle); err != nil {
		return fmt.Errorf("push bundle: %w", err)
	}

	slog.InfoContext(ctx, "Bundle pushed",
		"sync_id", settings.SyncID,
		"transactions", len(transactions))

	return nil
}

// HandleSyncMessage is the AMQP consumer handler. Every change message
// results in a full bundle push; the bundle is small enough that diffing
// is not worth the bookkeeping.
func (p *CloudSyncProcessor) HandleSyncMessage(ctx context.Context, msg *amqp.BundleSyncMessage) error {
	slog.InfoContext(ctx, "Handling bundle sync message",
		"sync_id", msg.SyncID,
		"reason", msg.Reason)
	return p.PushBundle(ctx)
}

// RestoreIfEmpty pulls the remote bundle into an empty local store. It runs
// once at worker startup so a fresh install on a second device picks up the
// household's data.
func (p *CloudSyncProcessor) RestoreIfEmpty(ctx context.Context) error {
	settings, err := p.settings.Settings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if settings.SyncID == "" {
		return nil
	}

	local, err := p.txs.List(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}
	if len(local) > 0 {
		return nil
	}

	bundle, ok, err := p.syncer.Fetch(ctx, settings.SyncID)
	if err != nil {
		return fmt.Errorf("fetch bundle: %w", err)
	}
	if !ok {
		slog.InfoContext(ctx, "No remote bundle to restore", "sync_id", settings.SyncID)
		return nil
	}

	restored := 0
	// The bundle lists newest first; appending oldest first keeps that
	// order in the local store.
	for i := len(bundle.Transactions) - 1; i >= 0; i-- {
		t := bundle.Transactions[i]
		if err := p.txs.Append(ctx, t); err != nil {
			slog.ErrorContext(ctx, "Failed to restore transaction",
				"id", t.ID, "error", err)
			continue
		}
		restored++
	}

	// Keep the local sync ID; the remote settings carry the rest.
	remote := bundle.Settings
	remote.SyncID = settings.SyncID
	if err := p.settings.SaveSettings(ctx, remote); err != nil {
		slog.ErrorContext(ctx, "Failed to restore settings", "error", err)
	}

	slog.InfoContext(ctx, "Restored bundle from cloud",
		"sync_id", settings.SyncID,
		"transactions", restored)

	return nil
}
