package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencyTokens = []string{"EUR", "USD", "€", "$"}

// ParseAmount converts locale-ambiguous numeric text into an exact decimal.
// Broker documents mix German ("1.234,56") and English ("1,234.56")
// conventions; when both separators occur, the one appearing earlier in the
// string is the thousands separator and is removed, the later one is the
// decimal point. A lone comma is a decimal point.
//
// Unparseable text yields zero. Callers treat that as "field absent" for
// optional amounts; required fields are guarded by their anchor patterns.
func ParseAmount(text string) decimal.Decimal {
	for _, c := range currencyTokens {
		text = strings.ReplaceAll(text, c, "")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Zero
	}

	hasComma := strings.Contains(text, ",")
	hasDot := strings.Contains(text, ".")
	switch {
	case hasComma && hasDot:
		if strings.Index(text, ".") < strings.Index(text, ",") {
			text = strings.ReplaceAll(text, ".", "")
			text = strings.ReplaceAll(text, ",", ".")
		} else {
			text = strings.ReplaceAll(text, ",", "")
		}
	case hasComma:
		text = strings.ReplaceAll(text, ",", ".")
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// CanonicalNumber renders a decimal in minimal form at four decimal places,
// so "200.00", "200,0" and "200" all become "200". Used for merge keys and
// for numeric tokens embedded in asset names.
func CanonicalNumber(d decimal.Decimal) string {
	s := d.StringFixed(4)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
