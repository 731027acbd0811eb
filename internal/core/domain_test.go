package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"500000", 500_000, true},
		{"7.000.000", 7_000_000, true},
		{"7,000,000", 7_000_000, true},
		{"Rp 1.500", 1_500, true},
		{"0", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"-500", 500, true}, // sign is decoration; digits win
	}
	for i, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("case %d (%q): got %d, %v", i, tc.in, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d (%q): expected error", i, tc.in)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:          "t1",
		Date:        NewDate(2026, 2, 20),
		Description: "Listrik",
		SubCategory: "Listrik",
		Amount:      150_000,
		Type:        Expense,
		Category:    CategoryRumah,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		mutate func(*Transaction)
		want   error
	}{
		{func(x *Transaction) { x.Date = Date{} }, ErrInvalidDate},
		{func(x *Transaction) { x.Description = "" }, ErrEmptyDescription},
		{func(x *Transaction) { x.Amount = 0 }, ErrInvalidAmount},
		{func(x *Transaction) { x.Amount = -5 }, ErrInvalidAmount},
		{func(x *Transaction) { x.Type = "TRANSFER" }, ErrInvalidType},
		{func(x *Transaction) { x.Category = CategorySalary }, ErrInvalidCategory},
	}
	for i, tc := range cases {
		bad := good
		tc.mutate(&bad)
		if err := bad.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: got %v, want %v", i, err, tc.want)
		}
	}
}

func TestValidCategoryFor(t *testing.T) {
	if !ValidCategoryFor(Expense, CategoryRumah) {
		t.Fatalf("Rumah should be a valid expense category")
	}
	if ValidCategoryFor(Expense, CategorySalary) {
		t.Fatalf("Gaji Utama must not be a valid expense category")
	}
	if !ValidCategoryFor(Income, CategoryBonus) {
		t.Fatalf("Bonus should be a valid income category")
	}
	if ValidCategoryFor(Income, CategoryTabungan) {
		t.Fatalf("Tabungan must not be a valid income category")
	}
	// The categorizer fallback is accepted everywhere.
	if !ValidCategoryFor(Expense, CategoryLainLain) || !ValidCategoryFor(Income, CategoryLainLain) {
		t.Fatalf("Lain-lain must be accepted for both types")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	in := NewDate(2026, 2, 20)
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2026-02-20"` {
		t.Fatalf("marshal form = %s", b)
	}
	var out Date
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.Equal(in.Time) {
		t.Fatalf("round trip mismatch: %v != %v", out, in)
	}
	if err := json.Unmarshal([]byte(`"20/02/2026"`), &out); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
}

func TestSubCategoriesCoverEveryExpenseCategory(t *testing.T) {
	for _, c := range ExpenseCategories {
		subs, ok := SubCategories[c]
		if !ok || len(subs) == 0 {
			t.Fatalf("category %q has no sub-categories", c)
		}
	}
	if _, ok := SubCategories[CategorySalary]; ok {
		t.Fatalf("income categories must not carry sub-categories")
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.AutoIncomeAmount != 7_000_000 || !s.AutoIncomeEnabled || s.InitialSavings != 0 || s.SyncID != "" {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}
