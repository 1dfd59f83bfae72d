package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"wohnwert/internal/pipeline"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (32 columns).
var columns = []string{
	"Listing ID",
	"Portal",
	"Source URL",
	"Title",
	"Street",
	"Postal Code",
	"City",
	"District",
	"State",
	"Price",
	"Size m2",
	"Rooms",
	"Year Built",
	"Floor",
	"Condition",
	"Building Type",
	"Energy Rating",
	"Betriebskosten",
	"Commission Free",
	"Valid",
	"Rejection Reasons",
	"Price per m2",
	"Estimated Rent",
	"Gross Yield %",
	"Net Yield %",
	"Mortgage Payment",
	"Cash Flow",
	"MRG Applicable",
	"Score",
	"Recommendation",
	"Positive Factors",
	"Risk Factors",
}

// Writer wraps csv.Writer for exporting scan results as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteResults converts a batch of pipeline results to CSV rows and writes
// them, one row per listing regardless of validation outcome.
func (w *Writer) WriteResults(results []*pipeline.Result) error {
	for _, res := range results {
		if err := w.csv.Write(resultToRow(res)); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// resultToRow converts a single result to a 32-element string slice.
// Listing columns are always filled; assessment columns only when the
// listing passed validation and was scored.
func resultToRow(res *pipeline.Result) []string {
	row := make([]string, len(columns))
	l := res.Listing

	row[0] = l.Identity.ListingID
	row[1] = l.Identity.SourcePortal
	row[2] = l.Identity.SourceURL
	row[3] = l.Spec.Title
	row[4] = strings.TrimSpace(l.Address.Street + " " + l.Address.HouseNumber)
	row[5] = l.Address.PostalCode
	row[6] = l.Address.City
	row[7] = l.Address.District
	row[8] = l.Address.State
	row[9] = formatFloatPtr(l.Costs.Price)
	row[10] = formatFloatPtr(l.Spec.SizeSQM)
	row[11] = formatFloatPtr(l.Spec.Rooms)
	row[12] = formatIntPtr(l.Spec.YearBuilt)
	row[13] = formatIntPtr(l.Spec.Floor)
	row[14] = string(l.Spec.Condition)
	row[15] = string(l.Spec.BuildingType)
	row[16] = l.Energy.Rating
	row[17] = formatFloatPtr(l.Costs.BetriebskostenMonthly)
	row[18] = formatBoolPtr(l.Costs.CommissionFree)
	row[19] = formatBool(res.Validation.Valid)
	row[20] = strings.Join(res.Validation.Reasons(), "; ")

	if res.Assessment == nil {
		return row
	}
	as := res.Assessment

	row[21] = formatMoney(as.PricePerSQM)
	row[22] = formatMoney(as.EstimatedRentMonthly)
	row[23] = formatMoney(as.GrossYield)
	row[24] = formatMoney(as.NetYield)
	row[25] = formatMoney(as.MortgagePaymentMonthly)
	row[26] = formatMoney(as.CashFlowMonthly)
	row[27] = formatBool(as.MRGApplicable)
	row[28] = strconv.FormatFloat(as.Score, 'f', 1, 64)
	row[29] = string(as.Recommendation)
	row[30] = strings.Join(as.PositiveFactors, "; ")
	row[31] = strings.Join(as.RiskFactors, "; ")

	return row
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatBoolPtr(v *bool) string {
	if v == nil {
		return ""
	}
	return formatBool(*v)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a scan label for use as an output filename.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized results filename for a scan run.
// Format: {sanitized_label}_{YYYY-MM-DD}.csv
func BuildFilename(label string) string {
	sanitized := SanitizeFilename(label)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.csv", sanitized, date)
}
