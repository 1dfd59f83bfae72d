package structured_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wohnwert/internal/extract/structured"
)

const productHTML = `<html><head>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "Product",
  "name": "Sonnige 3-Zimmer-Wohnung in 1090 Wien",
  "offers": {
    "@type": "Offer",
    "price": "349000",
    "priceCurrency": "EUR",
    "availableAtOrFrom": {
      "address": {
        "streetAddress": "Alserbachstraße 14",
        "postalCode": "1090",
        "addressLocality": "Wien",
        "addressRegion": "Wien"
      }
    }
  }
}
</script>
</head><body></body></html>`

func TestExtractProduct(t *testing.T) {
	e := structured.New()
	l := e.Extract(productHTML)

	assert.Equal(t, "Sonnige 3-Zimmer-Wohnung in 1090 Wien", l.Spec.Title)
	require.NotNil(t, l.Costs.Price)
	assert.Equal(t, 349000.0, *l.Costs.Price)
	assert.Equal(t, "EUR", l.Costs.Currency)
	assert.Equal(t, "1090", l.Address.PostalCode)
	assert.Equal(t, "Wien", l.Address.City)
	assert.Equal(t, "Alserbachstraße", l.Address.Street)
	assert.Equal(t, "14", l.Address.HouseNumber)
}

func TestExtractNumericPrice(t *testing.T) {
	html := `<script type="application/ld+json">{"@type":"Product","name":"Wohnung","offers":{"price":199500.50,"priceCurrency":"EUR"}}</script>`
	l := structured.New().Extract(html)
	require.NotNil(t, l.Costs.Price)
	assert.Equal(t, 199500.50, *l.Costs.Price)
}

func TestExtractGraphWrapper(t *testing.T) {
	html := `<script type="application/ld+json">{"@graph":[{"@type":"BreadcrumbList"},{"@type":"RealEstateListing","name":"Altbauwohnung","address":{"postalCode":"1020","addressLocality":"Wien"}}]}</script>`
	l := structured.New().Extract(html)
	assert.Equal(t, "Altbauwohnung", l.Spec.Title)
	assert.Equal(t, "1020", l.Address.PostalCode)
}

func TestExtractNeverFails(t *testing.T) {
	e := structured.New()

	for name, html := range map[string]string{
		"empty document":  "",
		"no script":       "<html><body><p>hi</p></body></html>",
		"malformed json":  `<script type="application/ld+json">{"@type":"Product",</script>`,
		"unrelated block": `<script type="application/ld+json">{"@type":"BreadcrumbList"}</script>`,
	} {
		t.Run(name, func(t *testing.T) {
			l := e.Extract(html)
			require.NotNil(t, l)
			assert.Nil(t, l.Costs.Price)
			assert.Empty(t, l.Spec.Title)
		})
	}
}

func TestExtractItemListIgnored(t *testing.T) {
	// Search result pages carry an ItemList block; only detail entities count.
	html := `<script type="application/ld+json">{"@type":"ItemList","itemListElement":[]}</script>`
	l := structured.New().Extract(html)
	assert.Empty(t, l.Spec.Title)
	assert.Nil(t, l.Costs.Price)
}
