package memory

import (
	"context"
	"errors"
	"testing"

	"finas/internal/core"
	"finas/internal/store"
)

func sample(id, date string) core.Transaction {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return core.Transaction{
		ID:          id,
		Date:        d,
		Description: "Listrik",
		SubCategory: "Listrik",
		Amount:      100_000,
		Type:        core.Expense,
		Category:    core.CategoryRumah,
	}
}

func TestAppendNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.Append(ctx, sample("a", "2026-02-01")); err != nil {
		t.Fatalf("append a: %v", err)
	}
	if err := s.Append(ctx, sample("b", "2026-02-02")); err != nil {
		t.Fatalf("append b: %v", err)
	}
	items, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].ID != "b" || items[1].ID != "a" {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestAppendRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.Append(ctx, sample("a", "2026-02-01")); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := s.Append(ctx, sample("a", "2026-02-02")); !errors.Is(err, core.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	items, _ := s.List(ctx)
	if len(items) != 1 {
		t.Fatalf("duplicate must not be stored, have %d", len(items))
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.Append(ctx, sample("a", "2026-02-01"))
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "a"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// The id is free again after deletion.
	if err := s.Append(ctx, sample("a", "2026-02-03")); err != nil {
		t.Fatalf("re-append after delete: %v", err)
	}
}

func TestSettingsDefaultsUntilSaved(t *testing.T) {
	ctx := context.Background()
	s := New()
	got, err := s.Settings(ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if got != core.DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", got)
	}
	want := core.AppSettings{AutoIncomeAmount: 5_000_000, AutoIncomeEnabled: false, InitialSavings: 250_000, SyncID: "abc"}
	if err := s.SaveSettings(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, _ = s.Settings(ctx)
	if got != want {
		t.Fatalf("settings = %+v, want %+v", got, want)
	}
}
