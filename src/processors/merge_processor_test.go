package processors

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/tradeledger/src/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func record(source models.SourceFormat, tradeType models.TradeType, date time.Time, name, qty, price string) models.TradeRecord {
	return models.TradeRecord{
		Source:       source,
		TradeType:    tradeType,
		Date:         date,
		AssetName:    name,
		Quantity:     decimal.RequireFromString(qty),
		PricePerUnit: decimal.RequireFromString(price),
	}
}

func TestMergeContractNoteWinsButCostInfoDonatesName(t *testing.T) {
	costInfo := record(models.SourceCostInfo, models.Buy, day(2025, 11, 17), "NVIDIA Put 200,00 $ HVB", "200", "0.85")
	costInfo.Fee = decimal.RequireFromString("0.99")
	note := record(models.SourceContractNote, models.Buy, day(2025, 11, 17), "NVDA PUT HVB", "200", "0.86")
	note.Fee = decimal.RequireFromString("1.99")
	note.Taxes = decimal.RequireFromString("3.10")

	for name, input := range map[string][]models.TradeRecord{
		"cost info first": {costInfo, note},
		"note first":      {note, costInfo},
	} {
		t.Run(name, func(t *testing.T) {
			merged := NewMergeProcessor().Merge(input)
			require.Len(t, merged, 1)

			got := merged[0]
			assert.Equal(t, models.SourceContractNote, got.Source)
			assert.Equal(t, "NVIDIA Put 200,00 $ HVB", got.AssetName, "cost info donates the asset name")
			assert.Equal(t, "0.86", got.PricePerUnit.String(), "numbers come from the contract note")
			assert.Equal(t, "1.99", got.Fee.String())
			assert.Equal(t, "3.1", got.Taxes.String())
		})
	}
}

func TestMergeStatementBeatsCostInfo(t *testing.T) {
	costInfo := record(models.SourceCostInfo, models.Sell, day(2025, 12, 17), "NVIDIA Put 200,00 $ HVB", "200", "0.85")
	stmt := record(models.SourceStatement, models.Sell, day(2025, 12, 17), "HVB Put 17.12.25 NVIDIA 200", "200", "1.05")
	stmt.Taxes = decimal.RequireFromString("13.18")

	merged := NewMergeProcessor().Merge([]models.TradeRecord{costInfo, stmt})
	require.Len(t, merged, 1)
	assert.Equal(t, models.SourceStatement, merged[0].Source)
	assert.Equal(t, "NVIDIA Put 200,00 $ HVB", merged[0].AssetName)
	assert.Equal(t, "1.05", merged[0].PricePerUnit.String())
}

func TestMergeContractNoteNotDemotedByStatement(t *testing.T) {
	note := record(models.SourceContractNote, models.Buy, day(2025, 11, 17), "NVDA PUT HVB", "200", "0.86")
	stmt := record(models.SourceStatement, models.Buy, day(2025, 11, 17), "Other Name", "200", "0.85")

	merged := NewMergeProcessor().Merge([]models.TradeRecord{note, stmt})
	require.Len(t, merged, 1)
	assert.Equal(t, models.SourceContractNote, merged[0].Source)
	assert.Equal(t, "NVDA PUT HVB", merged[0].AssetName, "statements do not donate names")
}

func TestMergeSamePriorityLastWins(t *testing.T) {
	first := record(models.SourceStatement, models.Buy, day(2025, 11, 17), "First", "200", "0.85")
	second := record(models.SourceStatement, models.Buy, day(2025, 11, 17), "Second", "200", "0.86")

	merged := NewMergeProcessor().Merge([]models.TradeRecord{first, second})
	require.Len(t, merged, 1)
	assert.Equal(t, "Second", merged[0].AssetName)
}

func TestMergeKeyNormalizesQuantityFormatting(t *testing.T) {
	a := record(models.SourceCostInfo, models.Buy, day(2025, 11, 17), "Foo", "200", "0.85")
	b := record(models.SourceContractNote, models.Buy, day(2025, 11, 17), "Foo", "200.00", "0.85")
	merged := NewMergeProcessor().Merge([]models.TradeRecord{a, b})
	assert.Len(t, merged, 1, "200 and 200.00 are the same quantity")
}

func TestMergeDistinctEventsStaySeparate(t *testing.T) {
	records := []models.TradeRecord{
		record(models.SourceContractNote, models.Buy, day(2025, 11, 17), "Foo", "200", "0.85"),
		record(models.SourceContractNote, models.Sell, day(2025, 11, 17), "Foo", "200", "0.85"),
		record(models.SourceContractNote, models.Buy, day(2025, 11, 18), "Foo", "200", "0.85"),
		record(models.SourceContractNote, models.Buy, day(2025, 11, 17), "Foo", "100", "0.85"),
	}
	merged := NewMergeProcessor().Merge(records)
	assert.Len(t, merged, 4)
}

func TestMergeCollectsSourceFiles(t *testing.T) {
	a := record(models.SourceCostInfo, models.Buy, day(2025, 11, 17), "Foo", "200", "0.85")
	a.SourceFiles = []string{"a.pdf"}
	b := record(models.SourceContractNote, models.Buy, day(2025, 11, 17), "Foo", "200", "0.85")
	b.SourceFiles = []string{"b.pdf"}

	merged := NewMergeProcessor().Merge([]models.TradeRecord{a, b})
	require.Len(t, merged, 1)
	assert.ElementsMatch(t, []string{"a.pdf", "b.pdf"}, merged[0].SourceFiles)
}

func TestSequence(t *testing.T) {
	sell17 := record(models.SourceStatement, models.Sell, day(2025, 12, 17), "A", "1", "1")
	buy17 := record(models.SourceStatement, models.Buy, day(2025, 12, 17), "B", "1", "1")
	buy01 := record(models.SourceStatement, models.Buy, day(2025, 12, 1), "C", "1", "1")

	ordered := Sequence([]models.TradeRecord{sell17, buy17, buy01})
	require.Len(t, ordered, 3)
	assert.Equal(t, "C", ordered[0].AssetName)
	assert.Equal(t, "B", ordered[1].AssetName, "same-day buy precedes sell")
	assert.Equal(t, "A", ordered[2].AssetName)

	// input order untouched
	assert.Equal(t, "A", sell17.AssetName)
}
