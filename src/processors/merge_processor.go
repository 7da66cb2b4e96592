package processors

import (
	"log/slog"

	"github.com/username/tradeledger/src/logger"
	"github.com/username/tradeledger/src/models"
)

// MergeProcessor collapses duplicate reports of one economic event. The
// broker issues up to three documents per trade; records sharing a merge
// key (date, side, quantity) describe the same trade regardless of how the
// asset name or price disagree.
type MergeProcessor struct{}

func NewMergeProcessor() *MergeProcessor { return &MergeProcessor{} }

// Merge resolves each merge-key group to a single record by strict source
// priority (contract note > statement > cost information). One exception:
// when the loser is a cost information document, its asset name overwrites
// the winner's - cost disclosures carry the cleanest instrument
// description, while the later documents have the better numbers. Equal
// priority resolves last-processed-wins.
//
// Output preserves first-appearance order of the keys; the sequencer owns
// the final ordering.
func (p *MergeProcessor) Merge(records []models.TradeRecord) []models.TradeRecord {
	byKey := make(map[models.MergeKey]models.TradeRecord)
	var order []models.MergeKey

	for _, rec := range records {
		key := rec.Key()
		existing, ok := byKey[key]
		if !ok {
			byKey[key] = rec
			order = append(order, key)
			continue
		}
		winner := resolve(existing, rec)
		logger.L.Debug("merged duplicate trade report",
			slog.String("date", key.Date),
			slog.String("tradeType", string(key.TradeType)),
			slog.String("quantity", key.Quantity),
			slog.String("kept", string(winner.Source)),
			slog.String("assetName", winner.AssetName))
		byKey[key] = winner
	}

	merged := make([]models.TradeRecord, 0, len(order))
	for _, key := range order {
		merged = append(merged, byKey[key])
	}
	return merged
}

func resolve(existing, incoming models.TradeRecord) models.TradeRecord {
	files := append(append([]string(nil), existing.SourceFiles...), incoming.SourceFiles...)

	var winner models.TradeRecord
	if incoming.Source.Priority() >= existing.Source.Priority() {
		winner = incoming
		if existing.Source == models.SourceCostInfo && incoming.Source != models.SourceCostInfo {
			winner.AssetName = existing.AssetName
		}
	} else {
		winner = existing
		if incoming.Source == models.SourceCostInfo {
			winner.AssetName = incoming.AssetName
		}
	}
	winner.SourceFiles = files
	return winner
}
