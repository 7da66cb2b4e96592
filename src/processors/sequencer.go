package processors

import (
	"sort"

	"github.com/username/tradeledger/src/models"
)

// Sequence orders merged trades for deterministic ledger application: date
// ascending, buys before sells on the same date. A same-day buy must reach
// the ledger before the sell that might need to match against it.
func Sequence(records []models.TradeRecord) []models.TradeRecord {
	out := append([]models.TradeRecord(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].TradeType == models.Buy && out[j].TradeType == models.Sell
	})
	return out
}
