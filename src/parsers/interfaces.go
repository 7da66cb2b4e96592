package parsers

import (
	"github.com/username/tradeledger/src/models"
)

// Parser turns the extracted plain text of one confirmation document into a
// structured trade record. Implementations are pure: the same text always
// yields the same record, and a document missing any required field fails
// as a whole rather than producing a partial record.
type Parser interface {
	Parse(text string) (models.TradeRecord, error)
}
