package ai

import (
	"context"

	"finas/internal/core"
)

// FallbackInsight is returned whenever real analysis is not available,
// whether the key is missing or the model call failed.
func FallbackInsight() core.FinancialInsight {
	return core.FinancialInsight{
		Summary:  "Analisis AI tidak tersedia karena API Key belum dikonfigurasi.",
		Advice:   []string{"Silakan masukkan API Key di pengaturan lingkungan untuk mengaktifkan fitur ini."},
		Warnings: []string{"Fitur AI non-aktif."},
	}
}

// Unavailable is the advisor used when no API key is configured. It never
// fails; it answers with the fallback insight and the catch-all category.
type Unavailable struct{}

func (Unavailable) FinancialAdvice(ctx context.Context, transactions []core.Transaction) (core.FinancialInsight, error) {
	return FallbackInsight(), nil
}

func (Unavailable) Categorize(ctx context.Context, description string) (core.Category, error) {
	return core.CategoryLainLain, nil
}
