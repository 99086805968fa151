package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/wonny/pdie/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common output helpers: every command prints through these
// ═══════════════════════════════════════════════════════════

const rule = "───────────────────────────────────────────────────────────"

func printHeader(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w, rule)
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintf(w, "   %-24s : %s\n", key, value)
}

func printTable(w io.Writer, columns []string, widths []int, rows [][]string) {
	line := func(values []string) {
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = fmt.Sprintf("%-*s", widths[i], v)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	}

	line(columns)
	total := 0
	for _, width := range widths {
		total += width + 2
	}
	fmt.Fprintln(w, strings.Repeat("─", total-2))
	for _, r := range rows {
		line(r)
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func tierIcon(t contracts.Tier) string {
	switch t {
	case contracts.TierHigh:
		return "🔴 High"
	case contracts.TierMedium:
		return "🟡 Medium"
	default:
		return "🟢 Low"
	}
}

func trendText(t contracts.Trend) string {
	return t.Symbol() + " " + string(t)
}
