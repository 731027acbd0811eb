package core

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

const (
	CategorySekolah    Category = "Sekolah"
	CategoryLes        Category = "Les"
	CategoryKonsumsi   Category = "Konsumsi"
	CategoryAnakJingga Category = "Anak Jingga"
	CategoryRumah      Category = "Rumah"
	CategoryTabungan   Category = "Tabungan"
	CategoryKesehatan  Category = "Kesehatan"
	CategorySalary     Category = "Gaji Utama"
	CategoryInvestment Category = "Investasi"
	CategoryBonus      Category = "Bonus Suami/Istri"
	CategoryLainLain   Category = "Lain-lain"
)

// IncomeSubCategory is the sentinel sub-category carried by income records.
const IncomeSubCategory = "-"

// DateLayout is the wire and storage form of a transaction date.
const DateLayout = "2006-01-02"

type (
	TransactionType string

	Category string

	Date struct {
		time.Time
	}

	Transaction struct {
		ID          string          `json:"id"`
		Date        Date            `json:"date"`
		Description string          `json:"description"`
		SubCategory string          `json:"subCategory"`
		Amount      int64           `json:"amount"`
		Type        TransactionType `json:"type"`
		Category    Category        `json:"category"`
		IsAuto      bool            `json:"isAuto"`
	}

	AppSettings struct {
		AutoIncomeAmount  int64  `json:"autoIncomeAmount"`
		AutoIncomeEnabled bool   `json:"autoIncomeEnabled"`
		InitialSavings    int64  `json:"initialSavings"`
		SyncID            string `json:"syncId"`
	}

	FinancialInsight struct {
		Summary  string   `json:"summary"`
		Advice   []string `json:"advice"`
		Warnings []string `json:"warnings"`
	}
)

// AllCategories lists every category in fixed enumeration order. The order
// matters: the category breakdown and the auto-categorizer match walk it
// front to back.
var AllCategories = []Category{
	CategorySekolah,
	CategoryLes,
	CategoryKonsumsi,
	CategoryAnakJingga,
	CategoryRumah,
	CategoryTabungan,
	CategoryKesehatan,
	CategorySalary,
	CategoryInvestment,
	CategoryBonus,
	CategoryLainLain,
}

var ExpenseCategories = []Category{
	CategorySekolah,
	CategoryLes,
	CategoryKonsumsi,
	CategoryAnakJingga,
	CategoryRumah,
	CategoryTabungan,
	CategoryKesehatan,
}

var IncomeCategories = []Category{
	CategorySalary,
	CategoryInvestment,
	CategoryBonus,
	CategoryLainLain,
}

// SubCategories maps each expense category to its fixed, ordered
// sub-category labels.
var SubCategories = map[Category][]string{
	CategorySekolah:    {"Pembayaran/Beli Buku", "Infaq", "Zakat", "Sedekah", "Beli Seragam/Aksesori", "Lain - lain"},
	CategoryLes:        {"Sempoa", "Bahasa Inggris", "Bahasa Arab", "Mengaji", "Renang", "Tari", "Lain - lain"},
	CategoryKonsumsi:   {"Makan di Luar", "Jajan di Luar", "Lain - lain"},
	CategoryAnakJingga: {"Uang Saku Sekolah", "Uang Saku Main", "Lain - lain"},
	CategoryRumah:      {"Listrik", "PDAM", "Bensin Motor", "Sumbangan Desa", "Mingguan Rumah Tangga", "Belanja Mingguan/Bulanan", "Lain - lain"},
	CategoryTabungan:   {"Tabungan Umum", "Dana Darurat", "Investasi", "Lain - lain"},
	CategoryKesehatan:  {"Obat/Rumah Sakit", "Vitamin", "Lain - lain"},
}

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidCategory  = errors.New("invalid category for transaction type")
	ErrEmptyDescription = errors.New("empty description")
	ErrDuplicateID      = errors.New("duplicate transaction id")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a wall-clock time to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses an ISO date string (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ValidCategoryFor reports whether a category may be attached to a
// transaction of the given type. Lain-lain is accepted for both types: it is
// the universal fallback the auto-categorizer lands on.
func ValidCategoryFor(t TransactionType, c Category) bool {
	if c == CategoryLainLain {
		return true
	}
	var set []Category
	switch t {
	case Income:
		set = IncomeCategories
	case Expense:
		set = ExpenseCategories
	default:
		return false
	}
	for _, v := range set {
		if v == c {
			return true
		}
	}
	return false
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("empty transaction id")
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	if t.Type != Income && t.Type != Expense {
		return ErrInvalidType
	}
	if !ValidCategoryFor(t.Type, t.Category) {
		return ErrInvalidCategory
	}
	return nil
}

// DefaultSettings returns the first-run settings.
func DefaultSettings() AppSettings {
	return AppSettings{
		AutoIncomeAmount:  7_000_000,
		AutoIncomeEnabled: true,
		InitialSavings:    0,
		SyncID:            "",
	}
}

func (s AppSettings) Validate() error {
	if s.AutoIncomeAmount <= 0 {
		return ErrInvalidAmount
	}
	if s.InitialSavings < 0 {
		return errors.New("negative initial savings")
	}
	return nil
}

// ParseAmount converts user input to whole Rupiah. Grouping separators and
// currency decoration are stripped; only the digits count. Zero or digitless
// input is rejected.
//
// Examples:
//
//	ParseAmount("500000") -> 500000, nil
//	ParseAmount("7.000.000") -> 7000000, nil
//	ParseAmount("Rp 1,500") -> 1500, nil
func ParseAmount(s string) (int64, error) {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if v <= 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}
