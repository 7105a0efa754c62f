package invoices

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// percentOf returns percent% of amountCents rounded half-up to a whole cent.
// The percent is taken at its shortest decimal form so 0.7 means exactly 7/10.
func percentOf(amountCents int64, percent float64) int64 {
	return decimal.NewFromInt(amountCents).
		Mul(decimal.NewFromFloat(percent)).
		Div(hundred).
		Round(0).
		IntPart()
}

// ApplyDiscount returns the discount on amountCents, not the discounted price.
func ApplyDiscount(amountCents int64, percent float64) int64 {
	return percentOf(amountCents, percent)
}

// AddGST returns amountCents with percent GST added on top.
func AddGST(amountCents int64, percent float64) int64 {
	return amountCents + percentOf(amountCents, percent)
}
