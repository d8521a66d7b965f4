// Package currency converts amounts into the reference currency used for
// achievement thresholds.
//
// The rates are fixed approximations, not live quotes. They only have to be
// close enough that an achievement like "saved 10 000" means roughly the same
// effort whatever currency the user logs in.
package currency

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/thrift/internal/constants"
)

// rates maps a currency code to the value of one unit in the reference currency.
var rates = map[string]decimal.Decimal{
	"RUB": decimal.NewFromInt(1),
	"USD": decimal.NewFromInt(90),
	"EUR": decimal.NewFromInt(98),
	"GBP": decimal.NewFromInt(114),
	"CHF": decimal.NewFromInt(102),
	"CNY": decimal.RequireFromString("12.5"),
	"JPY": decimal.RequireFromString("0.6"),
	"INR": decimal.RequireFromString("1.08"),
	"TRY": decimal.RequireFromString("2.7"),
	"KZT": decimal.RequireFromString("0.19"),
	"UAH": decimal.RequireFromString("2.2"),
	"BYN": decimal.NewFromInt(28),
	"AMD": decimal.RequireFromString("0.23"),
	"GEL": decimal.NewFromInt(33),
	"UZS": decimal.RequireFromString("0.0072"),
	"PLN": decimal.NewFromInt(23),
	"CZK": decimal.RequireFromString("3.9"),
	"CAD": decimal.NewFromInt(66),
	"AUD": decimal.NewFromInt(59),
	"BRL": decimal.NewFromInt(17),
}

// Rate returns the value of one unit of code in the reference currency.
// Unknown codes convert at 1.
func Rate(code string) decimal.Decimal {
	if r, ok := rates[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return r
	}
	return decimal.NewFromInt(1)
}

// ToReference converts amount, expressed in code, into the reference currency.
func ToReference(amount decimal.Decimal, code string) decimal.Decimal {
	return amount.Mul(Rate(code))
}

// Known reports whether code has an entry in the rate table.
func Known(code string) bool {
	_, ok := rates[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// Codes lists the codes with a known rate, reference currency first.
func Codes() []string {
	codes := make([]string, 0, len(rates))
	for c := range rates {
		if c != constants.ReferenceCurrency {
			codes = append(codes, c)
		}
	}
	sort.Strings(codes)
	return append([]string{constants.ReferenceCurrency}, codes...)
}
