package costing

import "github.com/shopspring/decimal"

// RoundMoney rounds half-up to two decimal places. It is meant for display
// and export only; stored values keep full precision.
func RoundMoney(value float64) float64 {
	if !finite(value) {
		return 0
	}
	rounded, _ := decimal.NewFromFloat(value).Round(2).Float64()
	return rounded
}

// FormatMoney renders value with exactly two decimals, e.g. "4.50".
func FormatMoney(value float64) string {
	if !finite(value) {
		return "0.00"
	}
	return decimal.NewFromFloat(value).StringFixed(2)
}
