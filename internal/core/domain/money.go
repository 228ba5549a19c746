package domain

import "github.com/shopspring/decimal"

// Stored scales of the NUMERIC columns.
const (
	MoneyScale        int32 = 4
	ExchangeRateScale int32 = 8
)

// FitsScale reports whether d can be stored with the given number of decimal
// places without the database rounding it.
func FitsScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}
