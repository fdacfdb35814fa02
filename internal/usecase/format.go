package usecase

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Separators used by the fr-BE currency format, as in 1 234,50 €
const (
	groupSeparator    = "\u202f" // narrow no-break space
	currencySeparator = "\u00a0" // no-break space
	euroSign          = "€"
)

// FormatEUR renders an amount the way fr-BE storefronts show prices
func FormatEUR(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	return sign + groupThousands(intPart) + "," + fracPart + currencySeparator + euroSign
}

// FormatEURFloat is FormatEUR for a plain float price
func FormatEURFloat(amount float64) string {
	return FormatEUR(decimal.NewFromFloat(amount))
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(groupSeparator)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
