package usage

import (
	"fmt"
	"io"
	"sort"
)

// WriteReport prints a human-readable usage report: lifetime totals,
// per-model breakdown, today's and this month's usage, and the budget
// position.
func (l *Ledger) WriteReport(w io.Writer) {
	total := l.GetTotalUsage()
	today := l.GetDailyUsage("")
	month := l.GetMonthlyUsage("")

	fmt.Fprintln(w, "=== Token Usage Report ===")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Lifetime:")
	writeStats(w, total)

	models := l.GetModelUsage()
	if len(models) > 0 {
		names := make([]string, 0, len(models))
		for name := range models {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintln(w)
		fmt.Fprintln(w, "By model:")
		for _, name := range names {
			s := models[name]
			fmt.Fprintf(w, "  %-24s %10d tokens  $%.4f  (%d calls)\n",
				name, s.TotalTokens, s.TotalCost, s.CallCount)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Today:")
	writeStats(w, today)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "This month:")
	writeStats(w, month)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Monthly budget:     $%.2f\n", l.catalog.GetMonthlyLimit())
	fmt.Fprintf(w, "Used this month:    $%.4f (%.1f%%)\n", month.TotalCost, l.MonthlyUsagePercentage())
	fmt.Fprintf(w, "Remaining:          $%.4f\n", l.RemainingMonthlyBudget())
	if l.IsMonthlyLimitExceeded() {
		fmt.Fprintln(w, "WARNING: monthly budget limit reached")
	}
}

func writeStats(w io.Writer, s Stats) {
	fmt.Fprintf(w, "  Calls:              %d\n", s.CallCount)
	fmt.Fprintf(w, "  Input tokens:       %d\n", s.TotalInputTokens)
	fmt.Fprintf(w, "  Output tokens:      %d\n", s.TotalOutputTokens)
	fmt.Fprintf(w, "  Total tokens:       %d\n", s.TotalTokens)
	fmt.Fprintf(w, "  Cost:               $%.4f\n", s.TotalCost)
}
