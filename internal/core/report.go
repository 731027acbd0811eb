package core

// CategoryAmount is an expense total aggregated under one category.
type CategoryAmount struct {
	Category Category `json:"category"`
	Amount   int64    `json:"amount"`
}

// CycleTrendPoint carries the income/expense totals of one cycle for the
// cross-cycle comparison series.
type CycleTrendPoint struct {
	Cycle   string `json:"cycle"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
}

// Report is the full dashboard aggregate for one selected cycle.
type Report struct {
	Cycle        string            `json:"cycle"`
	TotalIncome  int64             `json:"totalIncome"`
	TotalExpense int64             `json:"totalExpense"`
	Balance      int64             `json:"balance"`
	TotalAssets  int64             `json:"totalAssets"`
	ByCategory   []CategoryAmount  `json:"byCategory"`
	Trend        []CycleTrendPoint `json:"trend"`
}

// CycleTransactions returns the subset of transactions belonging to the
// given cycle, preserving store order.
func CycleTransactions(transactions []Transaction, cycle string) []Transaction {
	var out []Transaction
	for _, t := range transactions {
		if CycleOf(t.Date) == cycle {
			out = append(out, t)
		}
	}
	return out
}

// TotalAssets is the running savings total: initial savings plus every
// Tabungan-category amount across ALL transactions, regardless of cycle.
func TotalAssets(transactions []Transaction, settings AppSettings) int64 {
	total := settings.InitialSavings
	for _, t := range transactions {
		if t.Category == CategoryTabungan {
			total += t.Amount
		}
	}
	return total
}

// CategoryBreakdown sums expense amounts per category for one cycle, in
// fixed enumeration order. Categories with a zero total are omitted, not
// reported as zero.
func CategoryBreakdown(transactions []Transaction, cycle string) []CategoryAmount {
	sums := make(map[Category]int64)
	for _, t := range transactions {
		if t.Type == Expense && CycleOf(t.Date) == cycle {
			sums[t.Category] += t.Amount
		}
	}
	var out []CategoryAmount
	for _, c := range AllCategories {
		if sums[c] > 0 {
			out = append(out, CategoryAmount{Category: c, Amount: sums[c]})
		}
	}
	return out
}

// CycleTrend groups all transactions by cycle and totals income and expense
// per group. Groups are ordered by the raw ISO date string of the first
// transaction seen for each cycle, compared lexicographically. This is NOT
// the reconstructed-label ordering used for the cycle selector.
func CycleTrend(transactions []Transaction) []CycleTrendPoint {
	index := make(map[string]int)
	firstDate := make(map[string]string)
	var points []CycleTrendPoint

	for _, t := range transactions {
		cycle := CycleOf(t.Date)
		i, ok := index[cycle]
		if !ok {
			i = len(points)
			index[cycle] = i
			firstDate[cycle] = t.Date.String()
			points = append(points, CycleTrendPoint{Cycle: cycle})
		}
		if t.Type == Income {
			points[i].Income += t.Amount
		} else {
			points[i].Expense += t.Amount
		}
	}

	for i := 1; i < len(points); i++ {
		for j := i; j > 0 && firstDate[points[j].Cycle] < firstDate[points[j-1].Cycle]; j-- {
			points[j], points[j-1] = points[j-1], points[j]
		}
	}
	return points
}

// BuildReport derives the complete dashboard aggregate for one cycle.
// Pure and idempotent: identical input always yields an identical report.
func BuildReport(transactions []Transaction, cycle string, settings AppSettings) Report {
	report := Report{
		Cycle:       cycle,
		TotalAssets: TotalAssets(transactions, settings),
		ByCategory:  CategoryBreakdown(transactions, cycle),
		Trend:       CycleTrend(transactions),
	}
	for _, t := range CycleTransactions(transactions, cycle) {
		switch t.Type {
		case Income:
			report.TotalIncome += t.Amount
		case Expense:
			report.TotalExpense += t.Amount
		}
	}
	report.Balance = report.TotalIncome - report.TotalExpense
	return report
}
