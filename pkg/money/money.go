// Package money formats rupee amounts for CLI and report output.
package money

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

const (
	crore = 1e7
	lakh  = 1e5
)

// FormatINR renders an amount with the Indian Crore/Lakh abbreviations
// ≥ 1 Cr → "₹1.25 Cr", ≥ 1 L → "₹3.40 L", otherwise "₹45,000".
// Negative amounts keep the same scale with a leading minus: "-₹2.00 L".
func FormatINR(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "₹–"
	}

	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	switch {
	case v >= crore:
		return fmt.Sprintf("%s₹%s Cr", sign, comma2(v/crore))
	case v >= lakh:
		return fmt.Sprintf("%s₹%s L", sign, comma2(v/lakh))
	default:
		return fmt.Sprintf("%s₹%s", sign, humanize.Comma(int64(math.Round(v))))
	}
}

// comma2 is "%.2f" with thousands grouping on the integer part
func comma2(v float64) string {
	cents := int64(math.Round(v * 100))
	return fmt.Sprintf("%s.%02d", humanize.Comma(cents/100), cents%100)
}

// FormatPct renders a fraction as a percentage with one decimal
func FormatPct(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}
