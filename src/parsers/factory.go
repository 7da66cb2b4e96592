package parsers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/username/tradeledger/src/models"
	"github.com/username/tradeledger/src/parsers/contractnote"
	"github.com/username/tradeledger/src/parsers/costinfo"
	"github.com/username/tradeledger/src/parsers/statement"
)

// ErrUnknownFormat means no marker phrase matched; the document is skipped
// and retained for manual inspection.
var ErrUnknownFormat = errors.New("unknown document format")

// Detect classifies raw document text by literal marker phrases, in fixed
// priority order. A statement could incidentally quote another layout's
// marker, so the order is part of the contract: statement, then contract
// note, then cost information.
func Detect(text string) (models.SourceFormat, error) {
	switch {
	case strings.Contains(text, "Transaction Statement"):
		return models.SourceStatement, nil
	case strings.Contains(text, "Contract note") || strings.Contains(text, "Abrechnung"):
		return models.SourceContractNote, nil
	case strings.Contains(text, "Ex-Ante cost information") || strings.Contains(text, "Kostentransparenz"):
		return models.SourceCostInfo, nil
	}
	return "", ErrUnknownFormat
}

func GetParser(source models.SourceFormat) (Parser, error) {
	switch source {
	case models.SourceStatement:
		return statement.NewParser(), nil
	case models.SourceContractNote:
		return contractnote.NewParser(), nil
	case models.SourceCostInfo:
		return costinfo.NewParser(), nil
	default:
		return nil, fmt.Errorf("no parser available for source: %s", source)
	}
}

// ParseDocument classifies and parses in one step.
func ParseDocument(text string) (models.TradeRecord, error) {
	source, err := Detect(text)
	if err != nil {
		return models.TradeRecord{}, err
	}
	parser, err := GetParser(source)
	if err != nil {
		return models.TradeRecord{}, err
	}
	return parser.Parse(text)
}
