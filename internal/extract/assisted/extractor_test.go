package assisted

import (
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wohnwert/internal/config"
	"wohnwert/internal/domain"
	"wohnwert/internal/port"
)

type stubClient struct {
	availableErr error
	response     string
	generateErr  error
	calledWith   string
}

func (s *stubClient) Available(_ context.Context) error { return s.availableErr }

func (s *stubClient) Generate(_ context.Context, in port.GenerateInput) (*port.GenerateOutput, error) {
	s.calledWith = in.Prompt
	if s.generateErr != nil {
		return nil, s.generateErr
	}
	return &port.GenerateOutput{Text: s.response, ModelUsed: "stub"}, nil
}

func testConfig() *config.AssistedConfig {
	return &config.AssistedConfig{
		Enabled:                 true,
		TriggerMode:             "conservative",
		ExtractionTimeoutSecs:   5,
		InferenceTimeoutSecs:    5,
		AvailabilityTimeoutSecs: 1,
		HTMLMaxChars:            10000,
		QualityCheckEnabled:     true,
	}
}

func emptyListing() *domain.Listing {
	return &domain.Listing{
		Provenance: make(map[string]domain.FieldSource),
		Notes:      make(map[string]string),
	}
}

func TestShouldRun(t *testing.T) {
	cfg := testConfig()
	e := New(&stubClient{}, cfg, log.Default())

	full := emptyListing()
	full.Costs.Price = domain.Float(200000)
	full.Spec.SizeSQM = domain.Float(70)
	full.Costs.BetriebskostenMonthly = domain.Float(150)

	t.Run("conservative skips when required fields present", func(t *testing.T) {
		assert.False(t, e.ShouldRun(full))
	})

	t.Run("conservative fires on missing operating cost", func(t *testing.T) {
		l := emptyListing()
		l.Costs.Price = domain.Float(200000)
		l.Spec.SizeSQM = domain.Float(70)
		assert.True(t, e.ShouldRun(l))
	})

	t.Run("aggressive fires on any missing field", func(t *testing.T) {
		cfg := testConfig()
		cfg.TriggerMode = "aggressive"
		e := New(&stubClient{}, cfg, log.Default())
		assert.True(t, e.ShouldRun(full))
	})

	t.Run("disabled never fires", func(t *testing.T) {
		cfg := testConfig()
		cfg.Enabled = false
		e := New(&stubClient{}, cfg, log.Default())
		assert.False(t, e.ShouldRun(emptyListing()))
	})
}

func TestExtractUnreachableServiceIsNonFatal(t *testing.T) {
	client := &stubClient{availableErr: errors.New("connection refused")}
	e := New(client, testConfig(), log.Default())

	l := e.Extract(context.Background(), "<html></html>", emptyListing())
	require.NotNil(t, l)
	assert.Nil(t, l.Costs.Price)
	assert.Nil(t, l.Spec.SizeSQM)
}

func TestExtractGenerateErrorIsNonFatal(t *testing.T) {
	client := &stubClient{generateErr: errors.New("read timeout")}
	e := New(client, testConfig(), log.Default())

	l := e.Extract(context.Background(), "<html></html>", emptyListing())
	require.NotNil(t, l)
	assert.Nil(t, l.Costs.Price)
}

func TestExtractRecoverableMalformedJSON(t *testing.T) {
	// Fenced block with unquoted key and trailing comma.
	client := &stubClient{response: "```json\n{size_sqm: 45, price: 150000,}\n```"}
	e := New(client, testConfig(), log.Default())

	l := e.Extract(context.Background(), "<html>45 m²</html>", emptyListing())
	require.NotNil(t, l.Spec.SizeSQM)
	assert.Equal(t, 45.0, *l.Spec.SizeSQM)
	require.NotNil(t, l.Costs.Price)
	assert.Equal(t, 150000.0, *l.Costs.Price)
}

func TestExtractPromptOnlyAsksForMissingFields(t *testing.T) {
	client := &stubClient{response: `{"betriebskosten_monthly": 180}`}
	e := New(client, testConfig(), log.Default())

	current := emptyListing()
	current.Costs.Price = domain.Float(200000)
	current.Spec.SizeSQM = domain.Float(70)

	l := e.Extract(context.Background(), "<html></html>", current)
	require.NotNil(t, l.Costs.BetriebskostenMonthly)
	assert.Equal(t, 180.0, *l.Costs.BetriebskostenMonthly)

	assert.Contains(t, client.calledWith, "betriebskosten_monthly")
	assert.NotContains(t, client.calledWith, "price, size_sqm")
}

func TestParseResponseStrategies(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		strategy string
	}{
		{"direct", `{"price": 100000}`, "direct"},
		{"fenced", "Here you go:\n```json\n{\"price\": 100000}\n```", "fenced block"},
		{"object span", `The result is {"price": 100000} as requested.`, "object span"},
		{"repair", `{price: 100000, "rooms": 3,}`, "repair"},
		{"key-value fallback", `"price": 100000 and also "rooms": 3 but { unbalanced`, "key-value fallback"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields, strategy, err := parseResponse(tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.strategy, strategy)
			assert.Equal(t, 100000.0, fields["price"])
		})
	}

	t.Run("hopeless input fails", func(t *testing.T) {
		_, _, err := parseResponse("I could not find any data in the listing.")
		assert.Error(t, err)
	})
}

func TestGateRejectsImplausibleValues(t *testing.T) {
	fields := map[string]any{
		"size_sqm":               3.0,    // below plausible floor
		"betriebskosten_monthly": 4000.0, // above ceiling
		"rooms":                  2.5,
		"year_built":             1750.0, // acceptable here, tighter stage would refuse
		"condition":              "saniert",
		"parking":                "tiefgarage",
		"elevator":               "ja",
	}
	l := applyGate(fields, true, log.Default())

	assert.Nil(t, l.Spec.SizeSQM)
	assert.Nil(t, l.Costs.BetriebskostenMonthly)
	require.NotNil(t, l.Spec.Rooms)
	assert.Equal(t, 2.5, *l.Spec.Rooms)
	require.NotNil(t, l.Spec.YearBuilt)
	assert.Equal(t, 1750, *l.Spec.YearBuilt)
	assert.Equal(t, domain.ConditionSaniert, l.Spec.Condition)
	assert.Equal(t, domain.ParkingTiefgarage, l.Features.Parking)
	require.NotNil(t, l.Features.Elevator)
	assert.True(t, *l.Features.Elevator)
}

func TestGateDisabledSkipsBounds(t *testing.T) {
	fields := map[string]any{"size_sqm": 3.0}
	l := applyGate(fields, false, log.Default())
	require.NotNil(t, l.Spec.SizeSQM)
	assert.Equal(t, 3.0, *l.Spec.SizeSQM)
}

func TestPrepareContentTruncates(t *testing.T) {
	html := "<html><body><p>" + strings.Repeat("Wohnung ", 100) + "</p></body></html>"
	content := prepareContent(html, 50)
	assert.LessOrEqual(t, len(content), 50+len("\n... [truncated]"))
}

func TestPrepareContentTruncatesOnRuneBoundary(t *testing.T) {
	// every possible cut point inside this text lands next to a
	// multi-byte rune; the result must still be valid UTF-8
	html := "<html><body><p>" + strings.Repeat("größere Stilaltbauwohnung für Anleger ", 20) + "</p></body></html>"
	for maxChars := 40; maxChars < 60; maxChars++ {
		content := prepareContent(html, maxChars)
		assert.True(t, utf8.ValidString(content), "maxChars=%d", maxChars)
		assert.LessOrEqual(t, len(content), maxChars+len("\n... [truncated]"))
	}
}
