package types

import (
	"os"
	"strconv"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Catalog prices are USD, the storefront displays metical. The rate matches
// what the web frontend used and can be overridden per deployment.
var exchangeRate = 63.5

func init() {
	if v, ok := os.LookupEnv("EXCHANGE_RATE"); ok {
		if rate, err := strconv.ParseFloat(v, 64); err == nil && rate > 0 {
			exchangeRate = rate
		}
	}
}

var (
	mzn          = currency.MustParseISO("MZN")
	pricePrinter = message.NewPrinter(language.EuropeanPortuguese)
)

// DisplayPrice formats a USD catalog price as MZN for presentation. Cart
// totals are never computed on converted values.
func DisplayPrice(p Price) string {
	return pricePrinter.Sprint(currency.Symbol(mzn.Amount(float64(p) * exchangeRate)))
}

func ExchangeRate() float64 {
	return exchangeRate
}
