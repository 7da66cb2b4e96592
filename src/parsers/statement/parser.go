// Package statement parses the "Transaction Statement" layout, the bank's
// post-settlement report. It is the only layout that itemizes withheld
// taxes, but its text flattening scatters the instrument name, so name
// extraction is a proximity search below a price/ISIN anchor.
package statement

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/username/tradeledger/src/models"
	"github.com/username/tradeledger/src/utils"
)

var (
	saleRe     = regexp.MustCompile(`(?i)Transaction Statement:\s*Sale`)
	purchaseRe = regexp.MustCompile(`(?i)Transaction Statement:\s*(Purchase|Buy)`)
	isoDateRe  = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	unitsRe    = regexp.MustCompile(`Units\s+([\d.,]+)`)
	priceRe    = regexp.MustCompile(`Price\s+EUR\s+([\d.,]+)`)

	// a line that is only digits, separators and dashes is never a name
	numericLineRe = regexp.MustCompile(`^[\d.,\s:-]+$`)
	// tax amounts appear either at the end of the line or after "EUR"
	trailingAmountRe = regexp.MustCompile(`([\d.,]+)\s*-?$`)
	eurAmountRe      = regexp.MustCompile(`EUR\s+([\d.,]+)`)
)

// nameWindow bounds the proximity search below the anchor line.
const nameWindow = 15

// boilerplate substrings that disqualify a candidate line as asset name:
// venue, account and issuer lines that the flattened layout interleaves
// with the instrument description.
var boilerplate = []string{
	"Execution Venue", "Market Value", "Amount", "Order", "Account",
	"Baader", "Client", "Portfolio", "WKN", "ISIN", "UniCredit",
	"Bank", "Sitz", "Munich", "München", "Tax", "Reference",
}

// tax lines are summed; a statement can carry several of them.
var taxKeywords = []string{
	"German flat rate tax", "Solidarity surcharge", "Church tax",
	"Kapitalertragsteuer", "Soli",
}

type Parser struct{}

func NewParser() *Parser { return &Parser{} }

func (p *Parser) Parse(text string) (models.TradeRecord, error) {
	rec := models.TradeRecord{Source: models.SourceStatement}

	switch {
	case saleRe.MatchString(text):
		rec.TradeType = models.Sell
	case purchaseRe.MatchString(text):
		rec.TradeType = models.Buy
	default:
		return models.TradeRecord{}, fmt.Errorf("%w: trade type", models.ErrFieldMissing)
	}

	dateStr := isoDateRe.FindString(text)
	if dateStr == "" {
		return models.TradeRecord{}, fmt.Errorf("%w: date", models.ErrFieldMissing)
	}
	date, err := utils.ParseISODate(dateStr)
	if err != nil {
		return models.TradeRecord{}, fmt.Errorf("%w: date %q", models.ErrFieldMissing, dateStr)
	}
	rec.Date = date

	if m := unitsRe.FindStringSubmatch(text); m != nil {
		rec.Quantity = utils.ParseAmount(m[1])
	} else {
		return models.TradeRecord{}, fmt.Errorf("%w: units", models.ErrFieldMissing)
	}

	if m := priceRe.FindStringSubmatch(text); m != nil {
		rec.PricePerUnit = utils.ParseAmount(m[1])
	} else {
		return models.TradeRecord{}, fmt.Errorf("%w: price", models.ErrFieldMissing)
	}

	lines := strings.Split(text, "\n")
	rec.AssetName = extractAssetName(text, lines)
	rec.Taxes = sumTaxes(lines)
	rec.Fee = decimal.Zero

	if !rec.Valid() {
		return models.TradeRecord{}, fmt.Errorf("%w: implausible statement values", models.ErrFieldMissing)
	}
	return rec, nil
}

// extractAssetName looks for the first non-boilerplate line within
// nameWindow lines below the "Price ... EUR" anchor (or, failing that, the
// "ISIN:" anchor). As a last resort it scans the text right after the
// "Quantity" caption. Returns "Unknown Asset" when nothing qualifies; the
// name is not a required field.
func extractAssetName(text string, lines []string) string {
	anchor := -1
	for i, line := range lines {
		if strings.Contains(line, "Price") && strings.Contains(line, "EUR") {
			anchor = i
			break
		}
	}
	if anchor == -1 {
		for i, line := range lines {
			if strings.Contains(line, "ISIN:") {
				anchor = i
				break
			}
		}
	}

	if anchor != -1 {
		end := min(len(lines), anchor+1+nameWindow)
		for _, raw := range lines[anchor+1 : end] {
			line := strings.TrimSpace(raw)
			if line == "" || isBoilerplate(line) || numericLineRe.MatchString(line) {
				continue
			}
			if isoDateRe.MatchString(line) {
				continue
			}
			if strings.Contains(line, "Price") && strings.Contains(line, "EUR") {
				continue
			}
			return line
		}
	}

	if idx := strings.Index(text, "Quantity"); idx != -1 {
		snippet := text[idx:min(len(text), idx+400)]
		for _, raw := range strings.Split(snippet, "\n") {
			line := strings.TrimSpace(raw)
			if strings.Contains(line, "Execution Venue") {
				continue
			}
			if len(line) > 3 && !isoDateRe.MatchString(line) &&
				!containsAny(line, "Quantity", "Units", "Price", "Date") {
				return line
			}
		}
	}
	return "Unknown Asset"
}

func isBoilerplate(line string) bool {
	lower := strings.ToLower(line)
	for _, bw := range boilerplate {
		if strings.Contains(lower, strings.ToLower(bw)) {
			return true
		}
	}
	return false
}

func containsAny(line string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}

func sumTaxes(lines []string) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		for _, key := range taxKeywords {
			if !strings.Contains(line, key) {
				continue
			}
			m := trailingAmountRe.FindStringSubmatch(strings.TrimSpace(line))
			if m == nil {
				m = eurAmountRe.FindStringSubmatch(line)
			}
			if m != nil {
				total = total.Add(utils.ParseAmount(m[1]))
			}
			// one amount per line, even when keywords overlap ("Soli")
			break
		}
	}
	return total
}
