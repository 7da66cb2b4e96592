// Package costinfo parses the "Ex-Ante cost information" layout, the
// pre-trade cost disclosure. It arrives first, carries only estimated
// amounts, but tends to state the cleanest instrument name of the three
// layouts - which is why the merger lets it donate the name to a winning
// record from another source.
package costinfo

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/username/tradeledger/src/models"
	"github.com/username/tradeledger/src/utils"
)

var (
	assetRe  = regexp.MustCompile(`Ex-Ante cost information\s+([^\r\n]+)`)
	dateRe   = regexp.MustCompile(`Date\s+(\d{2}\.\d{2}\.\d{4})`)
	qtyRe    = regexp.MustCompile(`Quantity\s+([\d.,]+)`)
	amountRe = regexp.MustCompile(`Est\. order amount\s+([\d.,]+)\s*(?:€|EUR)`)
	feeRe    = regexp.MustCompile(`Service charges\s+([\d.,]+)\s*EUR`)
)

type Parser struct{}

func NewParser() *Parser { return &Parser{} }

func (p *Parser) Parse(text string) (models.TradeRecord, error) {
	rec := models.TradeRecord{Source: models.SourceCostInfo}

	switch {
	case strings.Contains(text, "Order Buy") || strings.Contains(text, "Order\nBuy"):
		rec.TradeType = models.Buy
	case strings.Contains(text, "Order Sell") || strings.Contains(text, "Order\nSell"):
		rec.TradeType = models.Sell
	default:
		return models.TradeRecord{}, fmt.Errorf("%w: order side", models.ErrFieldMissing)
	}

	// the instrument name is the line following the caption
	if m := assetRe.FindStringSubmatch(text); m != nil {
		rec.AssetName = strings.TrimSpace(m[1])
	} else {
		rec.AssetName = "Unknown"
	}

	dm := dateRe.FindStringSubmatch(text)
	if dm == nil {
		return models.TradeRecord{}, fmt.Errorf("%w: date", models.ErrFieldMissing)
	}
	date, err := utils.ParseLedgerDate(dm[1])
	if err != nil {
		return models.TradeRecord{}, fmt.Errorf("%w: date %q", models.ErrFieldMissing, dm[1])
	}
	rec.Date = date

	qm := qtyRe.FindStringSubmatch(text)
	if qm == nil {
		return models.TradeRecord{}, fmt.Errorf("%w: quantity", models.ErrFieldMissing)
	}
	rec.Quantity = utils.ParseAmount(qm[1])

	// Only the estimated order total is disclosed; derive the unit price.
	// When the block is absent the price stays zero - a cost-info record
	// never wins a merge on numeric fields anyway.
	rec.PricePerUnit = decimal.Zero
	if am := amountRe.FindStringSubmatch(text); am != nil && rec.Quantity.IsPositive() {
		rec.PricePerUnit = utils.ParseAmount(am[1]).Div(rec.Quantity)
	}

	if m := feeRe.FindStringSubmatch(text); m != nil {
		rec.Fee = utils.ParseAmount(m[1])
	}

	if !rec.Valid() {
		return models.TradeRecord{}, fmt.Errorf("%w: implausible cost information values", models.ErrFieldMissing)
	}
	return rec, nil
}
