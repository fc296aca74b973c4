// Package report
package report

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/amirphl/stock-ledger/internal/ledger"
)

// Statistics renders the live per-item statistics as a text table, in the
// order given, with the grand total on the last line.
func Statistics(stats []ledger.Statistic, grandTotal float64) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ITEM\tPRICE\tON HAND\tVALUE")
	for _, st := range stats {
		fmt.Fprintf(w, "%s\t%.2f\t%g\t%.2f\n", st.Item.Name, st.Item.Price, st.Count, st.Total)
	}
	fmt.Fprintf(w, "TOTAL\t\t\t%.2f\n", grandTotal)
	w.Flush()
	return b.String()
}

// PeriodSummary renders a per-period aggregate as a text table, sorted by
// item name.
func PeriodSummary(title string, summary map[ledger.Item]ledger.Statistic) string {
	items := make([]ledger.Item, 0, len(summary))
	for item := range summary {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	var b strings.Builder
	fmt.Fprintln(&b, title)
	if len(items) == 0 {
		fmt.Fprintln(&b, "  (no records)")
		return b.String()
	}

	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tCOUNT\tVALUE")
	for _, item := range items {
		st := summary[item]
		fmt.Fprintf(w, "%s\t%g\t%.2f\n", item.Name, st.Count, st.Total)
	}
	w.Flush()
	return b.String()
}
