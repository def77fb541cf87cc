package cli

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Money formats amounts with a currency symbol.
type Money struct {
	Symbol string
}

// Format renders v with two decimals and thousands separators, e.g.
// "₹1,250.50" or "-₹40.00".
func (m Money) Format(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
	}
	return sign + m.Symbol + humanize.FormatFloat("#,###.##", math.Abs(v))
}

// Decimal renders a decimal amount.
func (m Money) Decimal(d decimal.Decimal) string {
	return m.Format(d.Round(2).InexactFloat64())
}

// Signed renders v with an explicit "+" on income.
func (m Money) Signed(v float64) string {
	if v > 0 {
		return "+" + m.Format(v)
	}
	return m.Format(v)
}

// Compact renders large amounts briefly ("₹1.2M"), for charts.
func (m Money) Compact(v float64) string {
	abs := math.Abs(v)
	if abs < 10000 {
		return m.Format(v)
	}
	s, suffix := humanize.ComputeSI(abs)
	sign := ""
	if v < 0 {
		sign = "-"
	}
	return sign + m.Symbol + humanize.FtoaWithDigits(s, 1) + strings.ToUpper(suffix)
}
