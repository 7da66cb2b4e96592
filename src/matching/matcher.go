// Package matching compares free-text instrument names. The three document
// layouts describe the same instrument differently ("NVIDIA Put 200,00 $
// HVB" vs "HVB Put 17.12.25 NVIDIA 200"), and there is no stable identifier
// to join on, so the ledger relies on tolerant token overlap instead.
package matching

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/username/tradeledger/src/utils"
)

var (
	datePattern    = regexp.MustCompile(`\d{2}\.\d{2}\.\d{2,4}|\d{4}-\d{2}-\d{2}`)
	currencySymbol = regexp.MustCompile(`[$€£]`)
	digitsOnly     = regexp.MustCompile(`^\d+$`)
)

// words that carry no identity: currency codes and unit markers.
var noiseWords = []string{"eur", "usd", "pc.", "stk."}

// Similar reports whether two asset names plausibly refer to the same
// instrument. Short names (fewer than three tokens) must be fully contained
// in the longer one; longer names tolerate exactly one discrepant token,
// e.g. an incidental "Order" or a locale word.
func Similar(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la == lb {
		return true
	}

	ta := tokenize(la)
	tb := tokenize(lb)
	m := min(len(ta), len(tb))
	if m == 0 {
		return false
	}
	threshold := m
	if m >= 3 {
		threshold = m - 1
	}
	return intersectionSize(ta, tb) >= threshold
}

// Score returns the fraction of shared normalized tokens relative to the
// shorter name, in [0,1]. Used to rank open positions when a sell finds no
// match above the Similar threshold.
func Score(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la == lb {
		return 1
	}
	ta := tokenize(la)
	tb := tokenize(lb)
	m := min(len(ta), len(tb))
	if m == 0 {
		return 0
	}
	return float64(intersectionSize(ta, tb)) / float64(m)
}

// tokenize strips dates, currency markers and unit words, splits on
// whitespace, canonicalizes numeric tokens ("200.00" -> "200") and drops
// single-character tokens unless they are purely numeric.
func tokenize(lower string) map[string]struct{} {
	text := datePattern.ReplaceAllString(lower, "")
	text = currencySymbol.ReplaceAllString(text, "")
	for _, w := range noiseWords {
		text = strings.ReplaceAll(text, w, "")
	}
	text = strings.ReplaceAll(text, ",", ".")

	tokens := make(map[string]struct{})
	for _, t := range strings.Fields(text) {
		if d, err := decimal.NewFromString(t); err == nil {
			t = utils.CanonicalNumber(d)
		}
		if len(t) > 1 || digitsOnly.MatchString(t) {
			tokens[t] = struct{}{}
		}
	}
	return tokens
}

func intersectionSize(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for t := range a {
		if _, ok := b[t]; ok {
			n++
		}
	}
	return n
}
