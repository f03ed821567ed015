package transformer

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/DRSN-tech/catalog-sync/internal/domain"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMarkers = NewMarkers([]string{"IT", "FR", "ES", "DE"}, "IT")

func TestStripMarkup(t *testing.T) {
	got := StripMarkup("<p>Uno<br>Due<BR/>Tre<br />Quattro &amp; <b>cinque</b></p>")
	assert.Equal(t, "Uno\nDue\nTre\nQuattro & cinque", got)
}

func TestExtractDefaultLanguage(t *testing.T) {
	tests := []struct {
		name string
		blob string
		want string
	}{
		{
			name: "text before first foreign marker",
			blob: "Descrizione buona.\nFR: Bonne description.\nES: Buena.",
			want: "Descrizione buona.",
		},
		{
			name: "default marker is kept",
			blob: "IT: Ciao\nFR: Bonjour\nES: Hola",
			want: "IT: Ciao",
		},
		{
			name: "earliest foreign marker wins regardless of declaration order",
			blob: "Testo<br>ES: Hola<br>FR: Bonjour",
			want: "Testo",
		},
		{
			name: "no markers",
			blob: "  <p>Solo italiano</p>  ",
			want: "Solo italiano",
		},
		{
			name: "empty",
			blob: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDefaultLanguage(tt.blob, testMarkers))
		})
	}
}

func TestExtractMultilingual(t *testing.T) {
	tests := []struct {
		name string
		blob string
		want string
	}{
		{
			name: "fixed order even when ES precedes FR in the document",
			blob: "IT: Ciao<br>ES: Hola<br>FR: Bonjour<br>DE: Hallo",
			want: "IT: Ciao\n\nFR: Bonjour\n\nES: Hola\n\nDE: Hallo",
		},
		{
			name: "absent languages are omitted",
			blob: "ES: Hola\nIT: Ciao",
			want: "IT: Ciao\n\nES: Hola",
		},
		{
			name: "last block runs to end of string",
			blob: "FR: Bonjour tout le monde",
			want: "FR: Bonjour tout le monde",
		},
		{
			name: "no markers",
			blob: "Solo testo",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMultilingual(tt.blob, testMarkers))
		})
	}
}

func TestSelectPrice(t *testing.T) {
	t.Run("in-store label wins over first entry", func(t *testing.T) {
		got := SelectPrice([]domain.RawPrice{
			{Listino: "Online", Prezzo: 12.00},
			{Listino: "Prezzo Negozio", Prezzo: 9.50},
		}, "negozio")
		require.NotNil(t, got)
		assert.Equal(t, "9.50", got.StringFixed(2))
	})

	t.Run("alternate label field is checked too", func(t *testing.T) {
		got := SelectPrice([]domain.RawPrice{
			{Listino: "A", Prezzo: 12.00},
			{Listino: "B", Descrizione: "listino NEGOZIO centro", Prezzo: 10.00},
		}, "negozio")
		require.NotNil(t, got)
		assert.Equal(t, "10.00", got.StringFixed(2))
	})

	t.Run("falls back to first entry", func(t *testing.T) {
		got := SelectPrice([]domain.RawPrice{{Listino: "Online", Prezzo: 12.00}}, "negozio")
		require.NotNil(t, got)
		assert.True(t, got.Equal(decimal.RequireFromString("12.00")))
	})

	t.Run("empty set is undefined", func(t *testing.T) {
		assert.Nil(t, SelectPrice(nil, "negozio"))
		assert.Nil(t, SelectPrice([]domain.RawPrice{}, "negozio"))
	})

	t.Run("rounded to two places", func(t *testing.T) {
		got := SelectPrice([]domain.RawPrice{{Listino: "Online", Prezzo: 19.996}}, "negozio")
		require.NotNil(t, got)
		assert.Equal(t, "20.00", got.StringFixed(2))
	})
}

func TestTransformer_Normalize(t *testing.T) {
	tr := New(Config{
		Languages:       []string{"IT", "FR", "ES", "DE"},
		DefaultLanguage: "IT",
		PriceKeyword:    "negozio",
		DefaultTaxRate:  22,
	})

	t.Run("decodes upstream json and applies defaults", func(t *testing.T) {
		var raw domain.RawRecord
		require.NoError(t, json.Unmarshal([]byte(`{
			"id": 1042,
			"codice": "AB-1",
			"marca": " Acme ",
			"titolo": "Sedia",
			"categoria": "Casa",
			"sottocategoria": "Sedie",
			"tags": "legno",
			"descrizione": "Sedia in legno.<br>FR: Chaise en bois.",
			"prezzi": [{"listino": "Online", "prezzo": 12}, {"listino": "Negozio", "prezzo": 9.5}],
			"immagini": ["", "https://img/1.jpg", "https://img/2.jpg"]
		}`), &raw))

		item, err := tr.Normalize(raw)
		require.NoError(t, err)

		assert.Equal(t, "1042", item.ExternalID)
		assert.Equal(t, "AB-1", item.Code)
		assert.Equal(t, "Acme", item.Brand)
		assert.Equal(t, "Sedia in legno.", item.DescriptionPlain)
		assert.Equal(t, "FR: Chaise en bois.", item.DescriptionMultilingual)
		require.NotNil(t, item.Price)
		assert.Equal(t, "9.50", item.Price.StringFixed(2))
		assert.Equal(t, 22, item.TaxRate)
		assert.Equal(t, 0, item.StockQuantity)
		assert.Equal(t, "https://img/1.jpg", item.ImageURL)
	})

	t.Run("keeps explicit tax and stock", func(t *testing.T) {
		item, err := tr.Normalize(domain.RawRecord{ID: "X1", Code: "C1", TaxRate: domain.IntOf(10), StockQuantity: domain.IntOf(7)})
		require.NoError(t, err)
		assert.Equal(t, 10, item.TaxRate)
		assert.Equal(t, 7, item.StockQuantity)
		assert.Nil(t, item.Price)
	})

	t.Run("missing identity is a per-item error", func(t *testing.T) {
		_, err := tr.Normalize(domain.RawRecord{Code: "C1"})
		assert.ErrorIs(t, err, e.ErrMissingExternalID)

		_, err = tr.Normalize(domain.RawRecord{ID: "X1"})
		assert.ErrorIs(t, err, e.ErrMissingCode)
	})

	t.Run("undecodable record is a per-item error", func(t *testing.T) {
		raw := domain.RawRecord{ID: "X1", Code: "C1", DecodeErr: fmt.Errorf("%w: item 2", e.ErrMalformedRecord)}
		_, err := tr.Normalize(raw)
		assert.ErrorIs(t, err, e.ErrMalformedRecord)
	})
}
