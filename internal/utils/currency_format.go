package utils

import (
	"github.com/shopspring/decimal"
)

// ShekelSign is appended to every formatted amount.
const ShekelSign = "₪"

var (
	oneMillion  = decimal.NewFromInt(1_000_000)
	oneThousand = decimal.NewFromInt(1_000)
)

// AbbreviateShekel renders an amount for KPI cards. Rounding is half-to-even.
//
//	1234567 -> "1.2M ₪"
//	12345   -> "12.3K ₪"
//	999.6   -> "1000 ₪"
//
// Amounts below 1,000, negatives included, are shown in whole shekels.
func AbbreviateShekel(amount decimal.Decimal) string {
	switch {
	case amount.GreaterThanOrEqual(oneMillion):
		return amount.Div(oneMillion).StringFixedBank(1) + "M " + ShekelSign
	case amount.GreaterThanOrEqual(oneThousand):
		return amount.Div(oneThousand).StringFixedBank(1) + "K " + ShekelSign
	default:
		return amount.StringFixedBank(0) + " " + ShekelSign
	}
}

