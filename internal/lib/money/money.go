package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// Format renders an amount with its currency code and two grouped decimals, e.g. "KES 15,000.00".
func Format(amount decimal.Decimal, currency string) string {
	value := printer.Sprint(number.Decimal(amount.Round(2).InexactFloat64(), number.Scale(2)))
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return value
	}
	return currency + " " + value
}
