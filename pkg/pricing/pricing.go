// Package pricing is the single home of the billing arithmetic: line totals,
// discount and tax application. The authoring client runs the same formulas;
// the server uses this package to verify what the client submitted.
package pricing

import "github.com/shopspring/decimal"

// Tolerance is the largest drift allowed between a supplied amount and its
// recomputation before a document is rejected. Clients round to paise, so
// anything beyond a paisa is a real disagreement.
const Tolerance = 0.01

// LineItem carries the pricing inputs of one bill/invoice line.
type LineItem struct {
	Weight        float64 // grams
	Rate          float64 // price per gram
	MakingCharge  float64
	WastageCharge float64
	Quantity      int
}

// Totals is the computed financial summary of a document.
type Totals struct {
	Subtotal       float64
	DiscountAmount float64
	TaxAmount      float64
	TotalAmount    float64
}

// ItemTotal computes (weight*rate + making_charge + wastage_charge) * quantity,
// rounded to two decimal places.
func ItemTotal(item LineItem) float64 {
	weight := decimal.NewFromFloat(item.Weight)
	rate := decimal.NewFromFloat(item.Rate)
	making := decimal.NewFromFloat(item.MakingCharge)
	wastage := decimal.NewFromFloat(item.WastageCharge)
	qty := decimal.NewFromInt(int64(item.Quantity))

	total := weight.Mul(rate).Add(making).Add(wastage).Mul(qty)
	f, _ := total.Round(2).Float64()
	return f
}

// Compute derives document totals from line items and the supplied discount
// and tax parameters. When discountAmount is zero and a percentage is given,
// the amount is derived from the percentage. Tax applies after discount:
// tax_amount = (subtotal - discount_amount) * tax_percentage / 100.
func Compute(items []LineItem, discountPercentage, discountAmount, taxPercentage float64) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(decimal.NewFromFloat(ItemTotal(item)))
	}

	discount := decimal.NewFromFloat(discountAmount)
	if discount.IsZero() && discountPercentage > 0 {
		discount = subtotal.Mul(decimal.NewFromFloat(discountPercentage)).Div(decimal.NewFromInt(100)).Round(2)
	}

	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(decimal.NewFromFloat(taxPercentage)).Div(decimal.NewFromInt(100)).Round(2)
	total := taxable.Add(tax).Round(2)

	subtotalF, _ := subtotal.Round(2).Float64()
	discountF, _ := discount.Round(2).Float64()
	taxF, _ := tax.Float64()
	totalF, _ := total.Float64()

	return Totals{
		Subtotal:       subtotalF,
		DiscountAmount: discountF,
		TaxAmount:      taxF,
		TotalAmount:    totalF,
	}
}

// WithinTolerance reports whether supplied and computed agree within Tolerance.
func WithinTolerance(supplied, computed float64) bool {
	diff := decimal.NewFromFloat(supplied).Sub(decimal.NewFromFloat(computed)).Abs()
	return diff.LessThanOrEqual(decimal.NewFromFloat(Tolerance))
}
