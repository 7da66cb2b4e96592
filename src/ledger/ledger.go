// Package ledger applies an ordered trade list against the position store.
// Buys always open a new position; sells close the earliest open position
// whose asset name passes the tolerant similarity check.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/username/tradeledger/src/logger"
	"github.com/username/tradeledger/src/matching"
	"github.com/username/tradeledger/src/models"
	"github.com/username/tradeledger/src/storage"
)

// ErrNoMatchingPosition means a sell found no open position passing the
// similarity threshold. The ledger is left unchanged; the document is
// retained for manual follow-up.
var ErrNoMatchingPosition = errors.New("no matching open position")

type PositionLedger struct {
	store storage.Store
}

func New(store storage.Store) *PositionLedger {
	return &PositionLedger{store: store}
}

// Apply routes one merged trade record to the ledger.
func (l *PositionLedger) Apply(rec models.TradeRecord) error {
	switch rec.TradeType {
	case models.Buy:
		return l.ApplyBuy(rec)
	case models.Sell:
		return l.ApplySell(rec)
	}
	return fmt.Errorf("unknown trade type %q", rec.TradeType)
}

// ApplyBuy always creates a new open position. Buys are never matched
// against existing rows: two identical buy documents mean two positions.
func (l *PositionLedger) ApplyBuy(rec models.TradeRecord) error {
	index, err := l.store.Append(storage.Position{
		AssetName: rec.AssetName,
		BuyDate:   rec.Date,
		Quantity:  rec.Quantity,
		BuyPrice:  rec.PricePerUnit,
	})
	if err != nil {
		return err
	}
	logger.L.Info("opened position",
		slog.Int("row", index),
		slog.String("assetName", rec.AssetName),
		slog.String("date", rec.Date.Format("2006-01-02")),
		slog.String("quantity", rec.Quantity.String()))
	return nil
}

// ApplySell scans open positions in ledger order, earliest-created first,
// and closes the first one whose name is similar to the sell's. First match
// wins; there is no search for a globally best match.
func (l *PositionLedger) ApplySell(rec models.TradeRecord) error {
	positions, err := l.store.Positions()
	if err != nil {
		return err
	}

	for _, pos := range positions {
		if !pos.Open() {
			continue
		}
		if !matching.Similar(pos.AssetName, rec.AssetName) {
			continue
		}
		err := l.store.WriteSale(pos.Index, storage.Sale{
			Date:     rec.Date,
			Quantity: rec.Quantity,
			Price:    rec.PricePerUnit,
			Fee:      rec.Fee,
			Taxes:    rec.Taxes,
		})
		if err != nil {
			return err
		}
		logger.L.Info("closed position",
			slog.Int("row", pos.Index),
			slog.String("positionName", pos.AssetName),
			slog.String("sellName", rec.AssetName),
			slog.String("sellDate", rec.Date.Format("2006-01-02")))
		return nil
	}

	logger.L.Warn("sell without matching open position",
		slog.String("assetName", rec.AssetName),
		slog.String("date", rec.Date.Format("2006-01-02")),
		slog.Any("closestCandidates", closestCandidates(positions, rec.AssetName)))
	return fmt.Errorf("%w: %q on %s", ErrNoMatchingPosition,
		rec.AssetName, rec.Date.Format("2006-01-02"))
}

// closestCandidates ranks open positions by name-token score for the
// warning log, so an operator can resolve the miss by hand.
func closestCandidates(positions []storage.Position, assetName string) []string {
	type scored struct {
		name  string
		score float64
	}
	var open []scored
	for _, pos := range positions {
		if pos.Open() {
			open = append(open, scored{pos.AssetName, matching.Score(pos.AssetName, assetName)})
		}
	}
	sort.SliceStable(open, func(i, j int) bool { return open[i].score > open[j].score })
	if len(open) > 3 {
		open = open[:3]
	}
	names := make([]string, 0, len(open))
	for _, c := range open {
		names = append(names, fmt.Sprintf("%s (%.2f)", c.name, c.score))
	}
	return names
}
