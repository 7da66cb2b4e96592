package statement

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/tradeledger/src/models"
)

const sampleSale = `Baader Bank Aktiengesellschaft
Transaction Statement: Sale
Execution Date 2025-12-17
Units 200
Price EUR 1,05
HVB Put 17.12.25 NVIDIA 200
Execution Venue: Gettex, Munich
Market Value EUR 210,00
German flat rate tax EUR 12,50
Solidarity surcharge EUR 0,68
`

const samplePurchase = `Transaction Statement: Purchase
2025-11-17
Units 200
Price EUR 0,85
NVIDIA Put 200,00 $ HVB
Execution Venue: Gettex
`

func TestParseSale(t *testing.T) {
	rec, err := NewParser().Parse(sampleSale)
	require.NoError(t, err)

	assert.Equal(t, models.SourceStatement, rec.Source)
	assert.Equal(t, models.Sell, rec.TradeType)
	assert.Equal(t, "2025-12-17", rec.Date.Format("2006-01-02"))
	assert.Equal(t, "200", rec.Quantity.String())
	assert.Equal(t, "1.05", rec.PricePerUnit.String())
	assert.Equal(t, "HVB Put 17.12.25 NVIDIA 200", rec.AssetName)
	// 12,50 flat rate tax + 0,68 solidarity surcharge
	assert.Equal(t, "13.18", rec.Taxes.String())
	assert.True(t, rec.Fee.IsZero())
}

func TestParsePurchase(t *testing.T) {
	rec, err := NewParser().Parse(samplePurchase)
	require.NoError(t, err)

	assert.Equal(t, models.Buy, rec.TradeType)
	assert.Equal(t, "2025-11-17", rec.Date.Format("2006-01-02"))
	assert.Equal(t, "NVIDIA Put 200,00 $ HVB", rec.AssetName)
	assert.True(t, rec.Taxes.IsZero())
}

func TestParseSkipsBoilerplateLines(t *testing.T) {
	text := `Transaction Statement: Sale
2025-12-17
Units 10
Price EUR 99,00
Execution Venue: Gettex
1.234,56
ISIN: DE0007100000
Mercedes-Benz Group AG
`
	rec, err := NewParser().Parse(text)
	require.NoError(t, err)
	assert.Equal(t, "Mercedes-Benz Group AG", rec.AssetName)
}

func TestParseRequiredFieldFailures(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{name: "no trade type", text: "Transaction Statement\n2025-12-17\nUnits 1\nPrice EUR 1,00\n"},
		{name: "no date", text: "Transaction Statement: Sale\nUnits 1\nPrice EUR 1,00\n"},
		{name: "no units", text: "Transaction Statement: Sale\n2025-12-17\nPrice EUR 1,00\n"},
		{name: "no price", text: "Transaction Statement: Sale\n2025-12-17\nUnits 1\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewParser().Parse(tc.text)
			assert.True(t, errors.Is(err, models.ErrFieldMissing), "want ErrFieldMissing, got %v", err)
		})
	}
}
