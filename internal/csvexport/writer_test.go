package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wohnwert/internal/domain"
	"wohnwert/internal/pipeline"
)

func scoredResult() *pipeline.Result {
	l := &domain.Listing{
		Provenance: make(map[string]domain.FieldSource),
		Notes:      make(map[string]string),
	}
	l.Identity = domain.Identity{
		ListingID:    "w-123",
		SourceURL:    "https://example.at/expose/w-123",
		SourcePortal: "willhaben",
		ScrapedAt:    time.Date(2026, 5, 12, 9, 30, 0, 0, time.UTC),
	}
	l.Spec.Title = "Helle Altbauwohnung"
	l.Spec.SizeSQM = domain.Float(81)
	l.Spec.YearBuilt = domain.Int(1902)
	l.Spec.Condition = domain.ConditionSaniert
	l.Costs.Price = domain.Float(249000)
	l.Costs.BetriebskostenMonthly = domain.Float(185.5)
	l.Address = domain.Address{
		Street:      "Alserbachstraße",
		HouseNumber: "14",
		PostalCode:  "1090",
		City:        "Wien",
		District:    "Alsergrund",
		State:       "Wien",
	}

	return &pipeline.Result{
		RunID:      uuid.New(),
		Listing:    l,
		Validation: domain.ValidationOutcome{Valid: true},
		Assessment: &domain.Assessment{
			PricePerSQM:            3074.07,
			EstimatedRentMonthly:   1296,
			GrossYield:             6.25,
			NetYield:               5.35,
			MortgagePaymentMonthly: 951.1,
			CashFlowMonthly:        344.9,
			MRGApplicable:          true,
			Score:                  8.0,
			Recommendation:         domain.RecommendStrongBuy,
			PositiveFactors:        []string{"Ausgezeichnete Rendite: 6.3%", "Guter Zustand: saniert"},
			RiskFactors:            []string{"MRG-Mietpreisbindung könnte gelten (Vorkriegsbau)"},
		},
	}
}

func rejectedResult() *pipeline.Result {
	l := &domain.Listing{
		Provenance: make(map[string]domain.FieldSource),
		Notes:      make(map[string]string),
	}
	l.Identity.ListingID = "w-456"
	l.Identity.SourcePortal = "immoscout"
	l.Spec.SizeSQM = domain.Float(55)

	return &pipeline.Result{
		RunID:   uuid.New(),
		Listing: l,
		Validation: domain.ValidationOutcome{
			Valid: false,
			Failures: []domain.ValidationFailure{
				{RuleKey: "required.price.positive", FieldPath: "costs.price", Message: "missing purchase price"},
				{RuleKey: "required.betriebskosten.positive", FieldPath: "costs.betriebskosten_monthly", Message: "missing operating-cost figure"},
			},
		},
	}
}

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 32)
	assert.Equal(t, "Listing ID", row[0])
	assert.Equal(t, "Recommendation", row[29])
	assert.Equal(t, "Risk Factors", row[31])
}

func TestWriteResults_Scored(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteResults([]*pipeline.Result{scoredResult()}))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	row := rows[1]
	assert.Equal(t, "w-123", row[0])
	assert.Equal(t, "willhaben", row[1])
	assert.Equal(t, "Alserbachstraße 14", row[4])
	assert.Equal(t, "1090", row[5])
	assert.Equal(t, "249000", row[9])
	assert.Equal(t, "81", row[10])
	assert.Equal(t, "1902", row[12])
	assert.Equal(t, "saniert", row[14])
	assert.Equal(t, "Yes", row[19])
	assert.Equal(t, "", row[20])
	assert.Equal(t, "3074.07", row[21])
	assert.Equal(t, "Yes", row[27])
	assert.Equal(t, "8.0", row[28])
	assert.Equal(t, "STRONG BUY", row[29])
	assert.Contains(t, row[30], "Ausgezeichnete Rendite")
	assert.Contains(t, row[31], "MRG")
}

func TestWriteResults_RejectedLeavesAssessmentColumnsEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteResults([]*pipeline.Result{rejectedResult()}))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "w-456", row[0])
	assert.Equal(t, "No", row[19])
	assert.Equal(t, "missing purchase price; missing operating-cost figure", row[20])
	for _, col := range row[21:] {
		assert.Empty(t, col)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "wien_scan", "wien_scan"},
		{"spaces and umlauts", "Wiener Bezirke März", "Wiener_Bezirke_M_rz"},
		{"collapses underscores", "a___b", "a_b"},
		{"trims edges", "__scan__", "scan"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}
