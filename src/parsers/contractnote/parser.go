// Package contractnote parses the "Contract note" layout, the execution
// confirmation. It carries the settled quantity, price, order fees and a
// consolidated tax block, and opens with a "Buy/Sell <qty> <name>" header.
package contractnote

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/username/tradeledger/src/models"
	"github.com/username/tradeledger/src/utils"
)

var (
	headRe        = regexp.MustCompile(`(?m)^(Buy|Sell)\s+(?:[\d.,]+(?:\s*pc\.|\s*Stk\.)?)?\s*(.+)$`)
	nameCleanupRe = regexp.MustCompile(`^[\d.,]+\s*(?:pc\.|Stk\.)\s+(.+)`)
	dateRe        = regexp.MustCompile(`(?:Execution|Date)\s+(\d{2}\.\d{2}\.\d{4})`)
	qtyPriceRe    = regexp.MustCompile(`([\d.,]+)\s*(?:pc\.|Stk\.)\s+([\d.,]+)\s*EUR`)
	feeRe         = regexp.MustCompile(`Order fees\s*[\r\n]*\s*([-\d.,]+)\s*EUR`)
	taxRe         = regexp.MustCompile(`Taxes\s*[\r\n]*\s*([-\d.,]+)\s*EUR`)
)

type Parser struct{}

func NewParser() *Parser { return &Parser{} }

func (p *Parser) Parse(text string) (models.TradeRecord, error) {
	rec := models.TradeRecord{Source: models.SourceContractNote}

	head := headRe.FindStringSubmatch(text)
	if head == nil {
		return models.TradeRecord{}, fmt.Errorf("%w: buy/sell header", models.ErrFieldMissing)
	}
	rec.TradeType = models.TradeType(head[1])
	rawName := head[2]
	// the quantity sometimes bleeds into the name capture ("1,5 pc. Foo")
	if m := nameCleanupRe.FindStringSubmatch(rawName); m != nil {
		rec.AssetName = strings.TrimSpace(m[1])
	} else {
		rec.AssetName = strings.TrimSpace(rawName)
	}

	dm := dateRe.FindStringSubmatch(text)
	if dm == nil {
		return models.TradeRecord{}, fmt.Errorf("%w: execution date", models.ErrFieldMissing)
	}
	date, err := utils.ParseLedgerDate(dm[1])
	if err != nil {
		return models.TradeRecord{}, fmt.Errorf("%w: execution date %q", models.ErrFieldMissing, dm[1])
	}
	rec.Date = date

	qp := qtyPriceRe.FindStringSubmatch(text)
	if qp == nil {
		return models.TradeRecord{}, fmt.Errorf("%w: quantity/price block", models.ErrFieldMissing)
	}
	rec.Quantity = utils.ParseAmount(qp[1])
	rec.PricePerUnit = utils.ParseAmount(qp[2])

	// fees and taxes are printed as negative cash flows
	if m := feeRe.FindStringSubmatch(text); m != nil {
		rec.Fee = utils.ParseAmount(m[1]).Abs()
	}
	if m := taxRe.FindStringSubmatch(text); m != nil {
		rec.Taxes = utils.ParseAmount(m[1]).Abs()
	}

	if !rec.Valid() {
		return models.TradeRecord{}, fmt.Errorf("%w: implausible contract note values", models.ErrFieldMissing)
	}
	return rec, nil
}
