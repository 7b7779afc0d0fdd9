package sales

import (
	"github.com/shopspring/decimal"
)

// PriceLine is one item line as seen by the pricing calculator.
// UnitPrice is tax-inclusive.
type PriceLine struct {
	Quantity  int
	UnitPrice float64
}

// DiscountPolicy is either a percentage of the subtotal (Percent,
// 0-100) or a fixed amount. When both are zero no discount applies.
type DiscountPolicy struct {
	Percent float64
	Fixed   float64
}

// Totals are the derived monetary fields of an order, rounded to two
// decimals.
type Totals struct {
	Subtotal       float64
	DiscountAmount float64
	Total          float64
}

// ComputeTotals derives subtotal, discount and total from the item
// lines and the discount policy. Pure and deterministic. The discount
// never exceeds the subtotal, so the total is never negative.
func ComputeTotals(lines []PriceLine, discount DiscountPolicy) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		lineTotal := decimal.NewFromFloat(line.UnitPrice).
			Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
	}
	subtotal = subtotal.Round(2)

	var amount decimal.Decimal
	switch {
	case discount.Percent > 0:
		amount = subtotal.
			Mul(decimal.NewFromFloat(discount.Percent)).
			Div(decimal.NewFromInt(100)).
			Round(2)
	case discount.Fixed > 0:
		amount = decimal.NewFromFloat(discount.Fixed).Round(2)
	}
	if amount.GreaterThan(subtotal) {
		amount = subtotal
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}

	total := subtotal.Sub(amount).Round(2)

	subF, _ := subtotal.Float64()
	amtF, _ := amount.Float64()
	totF, _ := total.Float64()
	return Totals{Subtotal: subF, DiscountAmount: amtF, Total: totF}
}

// LineSubtotal returns quantity x unit price rounded to two decimals.
func LineSubtotal(quantity int, unitPrice float64) float64 {
	v, _ := decimal.NewFromFloat(unitPrice).
		Mul(decimal.NewFromInt(int64(quantity))).
		Round(2).
		Float64()
	return v
}

// InclusiveTax returns the tax portion contained in a tax-inclusive
// amount at the given rate (e.g. 121.00 at 21% -> 21.00).
func InclusiveTax(amount, rate float64) float64 {
	if rate <= 0 {
		return 0
	}
	v, _ := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(rate)).
		Div(decimal.NewFromFloat(100 + rate)).
		Round(2).
		Float64()
	return v
}
