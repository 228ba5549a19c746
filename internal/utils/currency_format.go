package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// minorUnits lists ISO 4217 currencies whose minor unit is not two digits.
var minorUnits = map[string]int32{
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
	"CLP": 0, "ISK": 0, "JPY": 0, "KRW": 0, "PYG": 0, "UGX": 0, "VND": 0, "XAF": 0, "XOF": 0,
}

// CurrencyPrecision returns the number of minor-unit digits for a currency code.
func CurrencyPrecision(currencyCode string) int32 {
	if p, ok := minorUnits[strings.ToUpper(currencyCode)]; ok {
		return p
	}
	return 2
}

// FormatAmount renders an amount at the precision of its currency, followed by the code.
// Example: 12.3456 USD returns "12.35 USD"; 1200.4 JPY returns "1200 JPY".
func FormatAmount(amount decimal.Decimal, currencyCode string) string {
	return amount.StringFixed(CurrencyPrecision(currencyCode)) + " " + strings.ToUpper(currencyCode)
}
