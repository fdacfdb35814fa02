package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Page attributes are free text; numbers are read from their leading characters
// so values like "19.99 €" or "4 avis" still parse.
var (
	leadingDecimalRegex = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?`)
	leadingIntegerRegex = regexp.MustCompile(`^[+-]?\d+`)
)

// parseLeadingDecimal reads the decimal number at the start of s
func parseLeadingDecimal(s string) (decimal.Decimal, bool) {
	match := leadingDecimalRegex.FindString(strings.TrimSpace(s))
	if match == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(strings.TrimPrefix(match, "+"))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// parseLeadingFloat is parseLeadingDecimal for values kept as float64
func parseLeadingFloat(s string) (float64, bool) {
	match := leadingDecimalRegex.FindString(strings.TrimSpace(s))
	if match == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseLeadingInt reads the integer at the start of s
func parseLeadingInt(s string) (int, bool) {
	match := leadingIntegerRegex.FindString(strings.TrimSpace(s))
	if match == "" {
		return 0, false
	}

	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parsePrice reads a price written with either a dot or a comma decimal mark
func parsePrice(raw string) (decimal.Decimal, bool) {
	return parseLeadingDecimal(strings.Replace(raw, ",", ".", 1))
}
