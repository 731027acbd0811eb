package services

import (
	"context"
	"testing"

	"finas/internal/cloud"
	"finas/internal/cloud/local"
	"finas/internal/core"
	"finas/internal/store/memory"
)

func syncedStore(t *testing.T, syncID string) *memory.Store {
	t.Helper()
	s := memory.New()
	settings := core.DefaultSettings()
	settings.SyncID = syncID
	if err := s.SaveSettings(context.Background(), settings); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	return s
}

func TestPushBundleWritesFullDataset(t *testing.T) {
	ctx := context.Background()
	s := syncedStore(t, "keluarga-01")
	syncer, err := local.New(t.TempDir())
	if err != nil {
		t.Fatalf("new syncer: %v", err)
	}

	tx := core.Transaction{
		ID:          "t1",
		Date:        core.NewDate(2026, 2, 26),
		Description: "Belanja mingguan",
		SubCategory: "Belanja Mingguan/Bulanan",
		Amount:      400_000,
		Type:        core.Expense,
		Category:    core.CategoryRumah,
	}
	if err := s.Append(ctx, tx); err != nil {
		t.Fatalf("append: %v", err)
	}

	p := NewCloudSyncProcessor(s, s, syncer)
	if err := p.PushBundle(ctx); err != nil {
		t.Fatalf("push bundle: %v", err)
	}

	bundle, ok, err := syncer.Fetch(ctx, "keluarga-01")
	if err != nil || !ok {
		t.Fatalf("fetch: ok=%v err=%v", ok, err)
	}
	if len(bundle.Transactions) != 1 || bundle.Transactions[0].ID != "t1" {
		t.Fatalf("bundle transactions: %+v", bundle.Transactions)
	}
	if bundle.Settings.SyncID != "keluarga-01" {
		t.Fatalf("bundle settings: %+v", bundle.Settings)
	}
	if bundle.LastUpdated.IsZero() {
		t.Fatal("bundle lastUpdated is zero")
	}
}

func TestPushBundleWithoutSyncIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	dir := t.TempDir()
	syncer, _ := local.New(dir)

	p := NewCloudSyncProcessor(s, s, syncer)
	if err := p.PushBundle(ctx); err != nil {
		t.Fatalf("push without sync id must not error: %v", err)
	}
	if _, ok, _ := syncer.Fetch(ctx, ""); ok {
		t.Fatal("nothing should have been pushed")
	}
}

func TestRestoreIfEmpty(t *testing.T) {
	ctx := context.Background()
	syncer, _ := local.New(t.TempDir())

	remoteSettings := core.AppSettings{
		AutoIncomeAmount:  9_000_000,
		AutoIncomeEnabled: true,
		InitialSavings:    1_500_000,
		SyncID:            "old-device-id",
	}
	remote := cloud.Bundle{
		Transactions: []core.Transaction{
			{ID: "b", Date: core.NewDate(2026, 2, 27), Description: "Jajan", SubCategory: "Jajan di Luar", Amount: 20_000, Type: core.Expense, Category: core.CategoryKonsumsi},
			{ID: "a", Date: core.NewDate(2026, 2, 26), Description: "Makan", SubCategory: "Makan di Luar", Amount: 50_000, Type: core.Expense, Category: core.CategoryKonsumsi},
		},
		Settings: remoteSettings,
	}
	if err := syncer.Push(ctx, "keluarga-01", remote); err != nil {
		t.Fatalf("seed remote: %v", err)
	}

	s := syncedStore(t, "keluarga-01")
	p := NewCloudSyncProcessor(s, s, syncer)
	if err := p.RestoreIfEmpty(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}

	items, _ := s.List(ctx)
	if len(items) != 2 || items[0].ID != "b" || items[1].ID != "a" {
		t.Fatalf("restored order: %+v", items)
	}

	got, _ := s.Settings(ctx)
	if got.AutoIncomeAmount != 9_000_000 {
		t.Errorf("restored amount = %d", got.AutoIncomeAmount)
	}
	// The local sync ID survives the restore.
	if got.SyncID != "keluarga-01" {
		t.Errorf("sync id = %q, want keluarga-01", got.SyncID)
	}
}

func TestRestoreSkipsNonEmptyStore(t *testing.T) {
	ctx := context.Background()
	syncer, _ := local.New(t.TempDir())

	remote := cloud.Bundle{
		Transactions: []core.Transaction{
			{ID: "remote", Date: core.NewDate(2026, 2, 26), Description: "Remote", SubCategory: "Lain - lain", Amount: 10_000, Type: core.Expense, Category: core.CategoryKonsumsi},
		},
		Settings: core.DefaultSettings(),
	}
	_ = syncer.Push(ctx, "keluarga-01", remote)

	s := syncedStore(t, "keluarga-01")
	localTx := core.Transaction{ID: "local", Date: core.NewDate(2026, 2, 25), Description: "Lokal", SubCategory: "Lain - lain", Amount: 5_000, Type: core.Expense, Category: core.CategoryKonsumsi}
	_ = s.Append(ctx, localTx)

	p := NewCloudSyncProcessor(s, s, syncer)
	if err := p.RestoreIfEmpty(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}

	items, _ := s.List(ctx)
	if len(items) != 1 || items[0].ID != "local" {
		t.Fatalf("restore must not touch a non-empty store: %+v", items)
	}
}
