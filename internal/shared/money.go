package shared

import "github.com/shopspring/decimal"

// Round2 rounds a monetary value to 2 decimal places, half up.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// OrderTotal computes round2(max(0, subtotal - discount)) for a set of lines.
func OrderTotal(lines []Line, discount float64) float64 {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	total := subtotal.Sub(decimal.NewFromFloat(discount))
	if total.IsNegative() {
		total = decimal.Zero
	}
	return total.Round(2).InexactFloat64()
}

// Line is the (price, quantity) pair used for total computation.
type Line struct {
	Price    float64
	Quantity int
}
