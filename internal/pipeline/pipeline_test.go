package pipeline_test

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wohnwert/internal/analyzer"
	"wohnwert/internal/config"
	"wohnwert/internal/domain"
	"wohnwert/internal/extract/assisted"
	"wohnwert/internal/pipeline"
	"wohnwert/internal/port"
	"wohnwert/internal/validator"
)

type stubClient struct {
	availableErr error
	response     string
}

func (s *stubClient) Available(_ context.Context) error { return s.availableErr }

func (s *stubClient) Generate(_ context.Context, _ port.GenerateInput) (*port.GenerateOutput, error) {
	return &port.GenerateOutput{Text: s.response, ModelUsed: "stub"}, nil
}

func testAnalysis() *config.AnalysisConfig {
	return &config.AnalysisConfig{
		MortgageRate:            3.5,
		DownPaymentFraction:     0.30,
		TransactionCostFraction: 0.09,
		LoanTermYears:           25,
		MinSizeSQM:              10,
		RentRateTable:           domain.DefaultRentRates,
	}
}

func testScoring() *config.ScoringConfig {
	return &config.ScoringConfig{
		BaseScore:     5.0,
		StrongBuyMin:  8.0,
		BuyMin:        6.5,
		ConsiderMin:   5.0,
		WeakMin:       3.5,
		FeatureCountMin: 4,
	}
}

func assistedConfig(enabled bool) *config.AssistedConfig {
	return &config.AssistedConfig{
		Enabled:                 enabled,
		TriggerMode:             "conservative",
		ExtractionTimeoutSecs:   5,
		InferenceTimeoutSecs:    5,
		AvailabilityTimeoutSecs: 1,
		HTMLMaxChars:            10000,
		QualityCheckEnabled:     true,
	}
}

func quiet() *log.Logger { return log.New(io.Discard, "", 0) }

func newPipeline(assistedExtractor *assisted.Extractor) *pipeline.Pipeline {
	return pipeline.New(
		assistedExtractor,
		validator.NewRequiredEngine(10),
		analyzer.New(testAnalysis(), testScoring()),
		quiet(),
	)
}

func doc(id, html string) domain.RawDocument {
	return domain.RawDocument{
		ListingID: id,
		SourceURL: "https://example.at/expose/" + id,
		Portal:    "willhaben",
		HTML:      html,
		FetchedAt: time.Date(2026, 5, 12, 9, 30, 0, 0, time.UTC),
	}
}

const completeHTML = `<html><head>
<script type="application/ld+json">
{"@type":"RealEstateListing","name":"Helle Altbauwohnung","offers":{"@type":"Offer","price":"300000","priceCurrency":"EUR"},"address":{"@type":"PostalAddress","streetAddress":"Alserbachstraße 14","postalCode":"1090","addressLocality":"Wien"}}
</script></head><body>
<h1>Helle Altbauwohnung</h1>
<p>Kaufpreis: € 249.000</p>
<p>Wohnfläche: 81 m²</p>
<p>Betriebskosten: € 185,50</p>
<p>3 Zimmer, saniert, Lift vorhanden</p>
</body></html>`

func TestProcessStructuredWinsOverPattern(t *testing.T) {
	res := newPipeline(nil).Process(context.Background(), doc("w-1", completeHTML))
	l := res.Listing

	// JSON-LD price stands even though the body advertises a different one.
	require.NotNil(t, l.Costs.Price)
	assert.Equal(t, 300000.0, *l.Costs.Price)
	assert.Equal(t, domain.SourceStructured, l.Provenance["costs.price"])

	// fields only the body carries come from the pattern stage
	require.NotNil(t, l.Spec.SizeSQM)
	assert.Equal(t, 81.0, *l.Spec.SizeSQM)
	assert.Equal(t, domain.SourcePattern, l.Provenance["spec.size_sqm"])
	require.NotNil(t, l.Costs.BetriebskostenMonthly)
	assert.Equal(t, 185.5, *l.Costs.BetriebskostenMonthly)
}

func TestProcessAddressEnrichment(t *testing.T) {
	res := newPipeline(nil).Process(context.Background(), doc("w-2", completeHTML))
	addr := res.Listing.Address

	assert.Equal(t, "Alserbachstraße", addr.Street)
	assert.Equal(t, "14", addr.HouseNumber)
	assert.Equal(t, "1090", addr.PostalCode)
	assert.Equal(t, "Wien", addr.State)
	require.NotNil(t, addr.DistrictNumber)
	assert.Equal(t, 9, *addr.DistrictNumber)
}

func TestProcessValidListingGetsAssessment(t *testing.T) {
	res := newPipeline(nil).Process(context.Background(), doc("w-3", completeHTML))

	assert.True(t, res.Validation.Valid)
	require.NotNil(t, res.Assessment)
	assert.Greater(t, res.Assessment.Score, 0.0)
	assert.NotEmpty(t, res.Assessment.Recommendation)
	assert.NotEqual(t, uuid.Nil, res.RunID)
}

func TestProcessInvalidListingIsRejectedNotDropped(t *testing.T) {
	html := `<html><body><p>Wohnfläche: 81 m²</p></body></html>`
	res := newPipeline(nil).Process(context.Background(), doc("w-4", html))

	assert.False(t, res.Validation.Valid)
	assert.Nil(t, res.Assessment)
	assert.NotEmpty(t, res.Validation.Reasons())
	assert.NotNil(t, res.Listing)
}

func TestProcessAssistedFillsMissingRequiredField(t *testing.T) {
	// no operating costs anywhere in the markup, so the conservative
	// trigger fires and the inference stub supplies the figure
	html := `<html><body>
<p>Kaufpreis: € 249.000</p>
<p>Wohnfläche: 81 m²</p>
</body></html>`
	client := &stubClient{response: `{"betriebskosten_monthly": 185.5}`}
	p := newPipeline(assisted.New(client, assistedConfig(true), quiet()))

	res := p.Process(context.Background(), doc("w-5", html))

	require.NotNil(t, res.Listing.Costs.BetriebskostenMonthly)
	assert.Equal(t, 185.5, *res.Listing.Costs.BetriebskostenMonthly)
	assert.Equal(t, domain.SourceAssisted, res.Listing.Provenance["costs.betriebskosten_monthly"])
	assert.True(t, res.Validation.Valid)
	require.NotNil(t, res.Assessment)
}

func TestProcessAssistedUnreachableDegrades(t *testing.T) {
	html := `<html><body><p>Kaufpreis: € 249.000</p><p>Wohnfläche: 81 m²</p></body></html>`
	client := &stubClient{availableErr: context.DeadlineExceeded}
	p := newPipeline(assisted.New(client, assistedConfig(true), quiet()))

	res := p.Process(context.Background(), doc("w-6", html))

	assert.False(t, res.Validation.Valid)
	assert.Nil(t, res.Assessment)
	assert.Nil(t, res.Listing.Costs.BetriebskostenMonthly)
}

func TestRunnerProcessesAllInOrder(t *testing.T) {
	docs := []domain.RawDocument{
		doc("a", completeHTML),
		doc("b", `<html><body><p>Wohnfläche: 81 m²</p></body></html>`),
		doc("c", completeHTML),
	}
	r := pipeline.NewRunner(newPipeline(nil), 2, quiet())

	results := r.Run(context.Background(), docs)

	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].Listing.Identity.ListingID)
	assert.Equal(t, "b", results[1].Listing.Identity.ListingID)
	assert.Equal(t, "c", results[2].Listing.Identity.ListingID)
	assert.NotEqual(t, results[0].RunID, results[1].RunID)
	assert.False(t, results[1].Validation.Valid)
	assert.True(t, results[2].Validation.Valid)
}

func TestRunnerStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := pipeline.NewRunner(newPipeline(nil), 2, quiet())
	results := r.Run(ctx, []domain.RawDocument{doc("a", completeHTML)})

	assert.Empty(t, results)
}
