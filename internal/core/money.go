// Package core provides money parsing and formatting utilities.
//
// This file contains the parser used for user-entered amounts and the
// locale-aware formatter used for display.
package core

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is used when no ISO code is given.
const DefaultCurrency = "EUR"

var printer = message.NewPrinter(language.AmericanEnglish)

// ParseAmount converts a user-entered decimal string to a non-negative
// amount.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted. The
// sign of the stored amount comes from the transaction type, so signed input
// is rejected.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("-1")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.Replace(s, ",", ".", 1)
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' {
			return 0, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// FormatMoney formats amount as en-US currency with two fraction digits,
// e.g. "€1,234.50" or "-€460.00". Unknown currency codes are printed as the
// code itself in place of a symbol.
func FormatMoney(amount float64, code string) string {
	if code == "" {
		code = DefaultCurrency
	}
	symbol := strings.ToUpper(code)
	if unit, err := currency.ParseISO(code); err == nil {
		symbol = printer.Sprint(currency.Symbol(unit))
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return symbol + strconv.FormatFloat(amount, 'f', -1, 64)
	}
	// round first so -0.001 does not print as "-€0.00"
	amount = math.Round(amount*100) / 100
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	return sign + symbol + printer.Sprintf("%.2f", math.Abs(amount))
}
