package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/tradeledger/src/utils"
)

// SourceFormat identifies which confirmation layout a record was extracted
// from. The broker issues up to three documents for one trade, at different
// points of its lifecycle, and their data quality differs.
type SourceFormat string

const (
	SourceStatement    SourceFormat = "transaction_statement"
	SourceContractNote SourceFormat = "contract_note"
	SourceCostInfo     SourceFormat = "cost_information"
)

// Priority ranks sources for duplicate resolution. Contract notes carry the
// final settled numbers, statements the tax breakdown, cost information only
// pre-trade estimates.
func (s SourceFormat) Priority() int {
	switch s {
	case SourceContractNote:
		return 3
	case SourceStatement:
		return 2
	case SourceCostInfo:
		return 1
	}
	return 0
}

type TradeType string

const (
	Buy  TradeType = "Buy"
	Sell TradeType = "Sell"
)

// TradeRecord is the unified, intermediate representation of one trade
// confirmation. Each parser populates it directly from the document text;
// the merger collapses duplicates before the ledger sees them.
type TradeRecord struct {
	Source       SourceFormat    `json:"source"`
	TradeType    TradeType       `json:"trade_type"`
	Date         time.Time       `json:"date"` // day precision
	AssetName    string          `json:"asset_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Fee          decimal.Decimal `json:"fee"`
	Taxes        decimal.Decimal `json:"taxes"`

	// SourceFiles tracks which pending documents contributed to this record,
	// so the batch driver can consume them once the trade is applied.
	SourceFiles []string `json:"source_files,omitempty"`
}

// Valid reports whether all required fields were resolved. A parser that
// cannot satisfy this must fail the whole document instead of emitting a
// partial record.
func (r TradeRecord) Valid() bool {
	if r.TradeType != Buy && r.TradeType != Sell {
		return false
	}
	if r.Date.IsZero() {
		return false
	}
	return r.Quantity.IsPositive() && !r.PricePerUnit.IsNegative()
}

// MergeKey is the identity proxy for "same economic event" across document
// formats. Asset names vary per layout and prices may disagree, so only
// date, side and quantity take part.
type MergeKey struct {
	Date      string
	TradeType TradeType
	Quantity  string
}

// Key derives the record's MergeKey. The quantity is rendered in canonical
// minimal form so "5" and "5,00" collide as intended.
func (r TradeRecord) Key() MergeKey {
	return MergeKey{
		Date:      r.Date.Format("2006-01-02"),
		TradeType: r.TradeType,
		Quantity:  utils.CanonicalNumber(r.Quantity),
	}
}
