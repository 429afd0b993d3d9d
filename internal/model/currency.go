package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	KRW Currency = "KRW"
	CNY Currency = "CNY"
	AUD Currency = "AUD"
	CAD Currency = "CAD"
	CHF Currency = "CHF"
	INR Currency = "INR"
)

type CurrencyInfo struct {
	Code      Currency `json:"code"`
	Name      string   `json:"name"`
	Symbol    string   `json:"symbol"`
	Precision int32    `json:"precision"`
}

// Format rounds amount to the currency's display precision.
func (c CurrencyInfo) Format(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(c.Precision)
}

var supportedCurrencies = []CurrencyInfo{
	{Code: USD, Name: "US Dollar", Symbol: "$", Precision: 2},
	{Code: EUR, Name: "Euro", Symbol: "€", Precision: 2},
	{Code: GBP, Name: "British Pound", Symbol: "£", Precision: 2},
	{Code: JPY, Name: "Japanese Yen", Symbol: "¥", Precision: 0},
	{Code: KRW, Name: "Korean Won", Symbol: "₩", Precision: 0},
	{Code: CNY, Name: "Chinese Yuan", Symbol: "¥", Precision: 2},
	{Code: AUD, Name: "Australian Dollar", Symbol: "A$", Precision: 2},
	{Code: CAD, Name: "Canadian Dollar", Symbol: "C$", Precision: 2},
	{Code: CHF, Name: "Swiss Franc", Symbol: "Fr", Precision: 2},
	{Code: INR, Name: "Indian Rupee", Symbol: "₹", Precision: 2},
}

// PopularCurrencies are reported as quick rates next to every conversion.
var PopularCurrencies = []Currency{EUR, GBP, JPY, KRW, CNY, AUD}

// SupportedCurrencies returns the metadata of every supported currency in display order.
func SupportedCurrencies() []CurrencyInfo {
	out := make([]CurrencyInfo, len(supportedCurrencies))
	copy(out, supportedCurrencies)
	return out
}

func LookupCurrency(c Currency) (CurrencyInfo, bool) {
	for _, info := range supportedCurrencies {
		if info.Code == c {
			return info, true
		}
	}
	return CurrencyInfo{}, false
}

func (c Currency) Supported() bool {
	_, ok := LookupCurrency(c)
	return ok
}

func (c Currency) String() string {
	return string(c)
}

func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Supported() {
		return "", &UnsupportedCurrencyError{Code: string(c)}
	}
	return c, nil
}

// RateTable holds rates relative to Base as returned by one fetch.
type RateTable struct {
	Base      Currency             `json:"base"`
	Rates     map[Currency]float64 `json:"rates"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func (t *RateTable) Rate(c Currency) (float64, bool) {
	rate, ok := t.Rates[c]
	return rate, ok
}

// CrossRate returns how many units of to one unit of from buys.
func (t *RateTable) CrossRate(from, to Currency) (float64, error) {
	fromRate, ok := t.Rates[from]
	if !ok || fromRate <= 0 {
		return 0, &UnsupportedCurrencyError{Code: string(from)}
	}
	toRate, ok := t.Rates[to]
	if !ok || toRate <= 0 {
		return 0, &UnsupportedCurrencyError{Code: string(to)}
	}
	if from == to {
		return 1, nil
	}
	return toRate / fromRate, nil
}
