package costinfo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/tradeledger/src/models"
)

const sampleBuy = `Kostentransparenz
Ex-Ante cost information
NVIDIA Put 200,00 $ HVB
Order Buy
Date 17.11.2025
Quantity 200
Est. order amount 170,00 €
Service charges 0,99 EUR
`

func TestParseBuy(t *testing.T) {
	rec, err := NewParser().Parse(sampleBuy)
	require.NoError(t, err)

	assert.Equal(t, models.SourceCostInfo, rec.Source)
	assert.Equal(t, models.Buy, rec.TradeType)
	assert.Equal(t, "17.11.2025", rec.Date.Format("02.01.2006"))
	assert.Equal(t, "NVIDIA Put 200,00 $ HVB", rec.AssetName)
	assert.Equal(t, "200", rec.Quantity.String())
	// 170,00 / 200 units
	assert.Equal(t, "0.85", rec.PricePerUnit.String())
	assert.Equal(t, "0.99", rec.Fee.String())
}

func TestParseSellAcrossNewline(t *testing.T) {
	text := `Ex-Ante cost information
Siemens AG
Order
Sell
Date
03.02.2026
Quantity 10
`
	rec, err := NewParser().Parse(text)
	require.NoError(t, err)

	assert.Equal(t, models.Sell, rec.TradeType)
	assert.Equal(t, "Siemens AG", rec.AssetName)
	// no estimated amount block: the price stays zero and the record is
	// still valid, this source never wins a merge on numbers
	assert.True(t, rec.PricePerUnit.IsZero())
}

func TestParseMissingNameIsNotFatal(t *testing.T) {
	text := "Order Buy\nDate 17.11.2025\nQuantity 5\nEx-Ante cost information"
	rec, err := NewParser().Parse(text)
	require.NoError(t, err)
	assert.Equal(t, "Unknown", rec.AssetName)
}

func TestParseRequiredFieldFailures(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{name: "no order side", text: "Ex-Ante cost information\nFoo\nDate 17.11.2025\nQuantity 5\n"},
		{name: "no date", text: "Ex-Ante cost information\nFoo\nOrder Buy\nQuantity 5\n"},
		{name: "no quantity", text: "Ex-Ante cost information\nFoo\nOrder Buy\nDate 17.11.2025\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewParser().Parse(tc.text)
			assert.True(t, errors.Is(err, models.ErrFieldMissing), "want ErrFieldMissing, got %v", err)
		})
	}
}
