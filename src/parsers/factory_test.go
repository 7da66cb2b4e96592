package parsers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/tradeledger/src/models"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		name string
		text string
		want models.SourceFormat
	}{
		{name: "statement", text: "Transaction Statement: Sale", want: models.SourceStatement},
		{name: "contract note", text: "Contract note\nBuy 1 pc. Foo", want: models.SourceContractNote},
		{name: "contract note german", text: "Abrechnung\nKauf", want: models.SourceContractNote},
		{name: "cost info", text: "Ex-Ante cost information\nFoo", want: models.SourceCostInfo},
		{name: "cost info german", text: "Kostentransparenz", want: models.SourceCostInfo},
		{
			// markers from several layouts can occur in one document;
			// the statement marker takes priority
			name: "priority order",
			text: "Transaction Statement: Sale\nEx-Ante cost information\nContract note",
			want: models.SourceStatement,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Detect(tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDetectUnknownFormat(t *testing.T) {
	_, err := Detect("Dividend payout notification")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestGetParserCoversAllFormats(t *testing.T) {
	for _, source := range []models.SourceFormat{
		models.SourceStatement,
		models.SourceContractNote,
		models.SourceCostInfo,
	} {
		p, err := GetParser(source)
		require.NoError(t, err)
		assert.NotNil(t, p)
	}
	_, err := GetParser(models.SourceFormat("csv"))
	assert.Error(t, err)
}

func TestParseDocumentEndToEnd(t *testing.T) {
	text := `Kostentransparenz
Ex-Ante cost information
NVIDIA Put 200,00 $ HVB
Order Buy
Date 17.11.2025
Quantity 200
Est. order amount 170,00 €
`
	rec, err := ParseDocument(text)
	require.NoError(t, err)
	assert.Equal(t, models.SourceCostInfo, rec.Source)
	assert.Equal(t, "NVIDIA Put 200,00 $ HVB", rec.AssetName)
}
