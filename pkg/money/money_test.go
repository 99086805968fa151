package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatINR(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "₹0"},
		{450, "₹450"},
		{45000, "₹45,000"},
		{99999.4, "₹99,999"},
		{100000, "₹1.00 L"},
		{340000, "₹3.40 L"},
		{9999999, "₹100.00 L"},
		{10000000, "₹1.00 Cr"},
		{12500000, "₹1.25 Cr"},
		{123456000000, "₹12,345.60 Cr"},
		{-200000, "-₹2.00 L"},
		{-7500, "-₹7,500"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatINR(tt.in))
		})
	}
}

func TestFormatINR_NonFinite(t *testing.T) {
	assert.Equal(t, "₹–", FormatINR(math.NaN()))
	assert.Equal(t, "₹–", FormatINR(math.Inf(1)))
}

func TestFormatPct(t *testing.T) {
	assert.Equal(t, "31.2%", FormatPct(0.3124))
	assert.Equal(t, "60.0%", FormatPct(0.6))
}
