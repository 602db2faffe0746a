package utils

import "github.com/shopspring/decimal"

// Round2 rounds d to 2 decimal places, half away from zero.
// Amounts are rounded once, at the point of persistence, never mid-computation.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Money renders an amount the way it appears on invoices: fixed currency
// prefix and exactly 2 decimals.
func Money(d decimal.Decimal) string {
	return "Rs. " + d.StringFixed(2)
}
