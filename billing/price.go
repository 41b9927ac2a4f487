package billing

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var pricePrinter = message.NewPrinter(language.English)

// MicrosToDecimal converts a price in micro-units to a decimal amount.
func MicrosToDecimal(micros int64) decimal.Decimal {
	return decimal.New(micros, -6)
}

// FormatPrice renders a micro-unit price for display, e.g. "$ 1.99". Unknown
// currency codes fall back to "1.99 XYZ".
func FormatPrice(micros int64, currencyCode string) string {
	amount := MicrosToDecimal(micros)

	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return amount.StringFixed(2) + " " + currencyCode
	}
	return pricePrinter.Sprint(currency.Symbol(unit.Amount(amount.InexactFloat64())))
}
