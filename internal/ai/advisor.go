// Package ai produces financial advice and category suggestions for
// household transactions.
package ai

import (
	"context"

	"finas/internal/core"
)

type (
	// Advisor analyzes transactions and suggests categories. Implementations
	// must be safe for concurrent use by HTTP handlers.
	Advisor interface {
		FinancialAdvice(ctx context.Context, transactions []core.Transaction) (core.FinancialInsight, error)
		Categorize(ctx context.Context, description string) (core.Category, error)
	}
)
