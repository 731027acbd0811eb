// Package core holds the domain model and the financial-cycle engine.
//
// A financial cycle runs from the 25th of one month through the 24th of the
// next, replacing the calendar month as the accounting period. Cycles are
// identified purely by their label string; the label is the transport form
// between every component that deals in cycles.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// monthNames are the fixed Indonesian month abbreviations used in cycle
// labels. Label equality is string equality, so this table must never change.
var monthNames = [12]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

// Baseline window of selectable cycles, present even with no data.
const (
	cycleBaselineYear = 2026
	cycleHorizonYear  = 2030
)

// MonthName returns the abbreviation for a 1-based month.
func MonthName(month time.Month) string {
	return monthNames[int(month)-1]
}

// CycleOf maps a calendar date to the label of the financial cycle that
// contains it: "25 <start> - 24 <end> <endYear>". Days on or after the 25th
// open a cycle in the same month; earlier days belong to the cycle opened in
// the previous month. time.Date normalizes month under/overflow, so year
// boundaries fall out of plain calendar arithmetic.
func CycleOf(d Date) string {
	year, month, day := d.Date()
	var start, end time.Time
	if day >= 25 {
		start = time.Date(year, month, 25, 0, 0, 0, 0, time.UTC)
		end = time.Date(year, month+1, 24, 0, 0, 0, 0, time.UTC)
	} else {
		start = time.Date(year, month-1, 25, 0, 0, 0, 0, time.UTC)
		end = time.Date(year, month, 24, 0, 0, 0, 0, time.UTC)
	}
	return fmt.Sprintf("25 %s - 24 %s %d", MonthName(start.Month()), MonthName(end.Month()), end.Year())
}

// CurrentCycleLabel returns the cycle the given wall-clock moment belongs
// to. Before the baseline year it pins to the first baseline cycle so the
// selector never points outside the selectable range.
func CurrentCycleLabel(now time.Time) string {
	if now.Year() < cycleBaselineYear {
		return CycleOf(NewDate(cycleBaselineYear, 1, 25))
	}
	return CycleOf(DateOf(now))
}

// AvailableCycles enumerates every selectable cycle label: the fixed
// baseline window (25th of each month, January of the baseline year through
// December of the horizon year) plus the cycle of every transaction, even
// outside that window. The result is deduplicated and sorted ascending by
// the date reconstructed from each label's own tokens.
func AvailableCycles(transactions []Transaction) []string {
	seen := make(map[string]struct{})
	var cycles []string
	add := func(label string) {
		if _, ok := seen[label]; ok {
			return
		}
		seen[label] = struct{}{}
		cycles = append(cycles, label)
	}

	for year := cycleBaselineYear; year <= cycleHorizonYear; year++ {
		for month := 1; month <= 12; month++ {
			add(CycleOf(NewDate(year, month, 25)))
		}
	}
	for _, t := range transactions {
		add(CycleOf(t.Date))
	}

	sortCycles(cycles)
	return cycles
}

func sortCycles(cycles []string) {
	keys := make(map[string]time.Time, len(cycles))
	for _, c := range cycles {
		keys[c] = cycleSortKey(c)
	}
	// The slice tops out around the baseline window size, so insertion
	// sort is enough.
	for i := 1; i < len(cycles); i++ {
		for j := i; j > 0 && keys[cycles[j]].Before(keys[cycles[j-1]]); j-- {
			cycles[j], cycles[j-1] = cycles[j-1], cycles[j]
		}
	}
}

// cycleSortKey re-parses a label back into a date for ordering: the day
// token, the start-month abbreviation, and the trailing year token. Labels
// are the only thing exchanged between components, so they carry their own
// sort order. Malformed labels sort to the zero time.
func cycleSortKey(label string) time.Time {
	fields := strings.Fields(label)
	if len(fields) < 3 {
		return time.Time{}
	}
	day, err := strconv.Atoi(fields[0])
	if err != nil {
		return time.Time{}
	}
	month := monthIndex(fields[1])
	if month == 0 {
		return time.Time{}
	}
	year, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return time.Time{}
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func monthIndex(abbrev string) time.Month {
	for i, name := range monthNames {
		if name == abbrev {
			return time.Month(i + 1)
		}
	}
	return 0
}
