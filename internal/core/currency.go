package core

import (
	"errors"
	"math"
	"strings"
)

// fallbackRates maps currency codes to their approximate USD rate
// (units of the currency per 1 USD). Live rate fetching is an external
// service; this table only backs ingest when that service is unavailable.
var fallbackRates = map[string]float64{
	"USD": 1.0, "EUR": 0.92, "GBP": 0.79, "JPY": 149.50, "CHF": 0.88,
	"CAD": 1.36, "AUD": 1.52, "CNY": 7.24, "INR": 83.12, "BRL": 4.97,
	"MXN": 17.15, "KRW": 1320.50, "SGD": 1.34, "HKD": 7.82, "NOK": 10.65,
	"SEK": 10.42, "DKK": 6.87, "NZD": 1.64, "ZAR": 18.75, "RUB": 92.50,
}

var ErrUnknownCurrency = errors.New("unknown currency code")

// ConvertFallback converts an amount between two currencies using the
// static fallback table. The result is marked estimated by callers; exact
// rates come from the external exchange service.
func ConvertFallback(amount Money, from, to string) (Money, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		return amount, nil
	}
	fromRate, ok := fallbackRates[from]
	if !ok {
		return Money{}, ErrUnknownCurrency
	}
	toRate, ok := fallbackRates[to]
	if !ok {
		return Money{}, ErrUnknownCurrency
	}
	converted := float64(amount.Cents) / fromRate * toRate
	return Money{Cents: int64(math.Round(converted))}, nil
}
