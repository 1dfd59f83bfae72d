package assisted

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"wohnwert/internal/domain"
)

// Field keys the inference service is asked to fill. The order fixes the
// prompt layout so identical inputs produce identical prompts.
var promptFields = []string{
	"title", "price", "size_sqm", "rooms", "bedrooms", "bathrooms",
	"floor", "year_built", "betriebskosten_monthly", "reparaturruecklage",
	"condition", "building_type", "energy_rating", "hwb_value", "fgee_value",
	"heating_type", "parking", "elevator", "balcony", "terrace", "loggia",
	"garden", "cellar", "commission_free",
}

// missingFields lists the prompt keys not yet present on the record.
func missingFields(l *domain.Listing) []string {
	var missing []string
	for _, f := range promptFields {
		if !fieldSet(l, f) {
			missing = append(missing, f)
		}
	}
	return missing
}

func fieldSet(l *domain.Listing, key string) bool {
	switch key {
	case "title":
		return l.Spec.Title != ""
	case "price":
		return l.Costs.Price != nil
	case "size_sqm":
		return l.Spec.SizeSQM != nil
	case "rooms":
		return l.Spec.Rooms != nil
	case "bedrooms":
		return l.Spec.Bedrooms != nil
	case "bathrooms":
		return l.Spec.Bathrooms != nil
	case "floor":
		return l.Spec.Floor != nil
	case "year_built":
		return l.Spec.YearBuilt != nil
	case "betriebskosten_monthly":
		return l.Costs.BetriebskostenMonthly != nil
	case "reparaturruecklage":
		return l.Costs.Reparaturruecklage != nil
	case "condition":
		return l.Spec.Condition != ""
	case "building_type":
		return l.Spec.BuildingType != ""
	case "energy_rating":
		return l.Energy.Rating != ""
	case "hwb_value":
		return l.Energy.HWB != nil
	case "fgee_value":
		return l.Energy.FGEE != nil
	case "heating_type":
		return l.Energy.Heating != ""
	case "parking":
		return l.Features.Parking != ""
	case "elevator":
		return l.Features.Elevator != nil
	case "balcony":
		return l.Features.Balcony != nil
	case "terrace":
		return l.Features.Terrace != nil
	case "loggia":
		return l.Features.Loggia != nil
	case "garden":
		return l.Features.Garden != nil
	case "cellar":
		return l.Features.Cellar != nil
	case "commission_free":
		return l.Costs.CommissionFree != nil
	}
	return false
}

// requiredMissing reports whether one of the fields the validator demands
// is still absent; used by the conservative trigger mode.
func requiredMissing(l *domain.Listing) bool {
	return l.Costs.Price == nil || l.Spec.SizeSQM == nil || l.Costs.BetriebskostenMonthly == nil
}

var (
	jsonLDPattern = regexp.MustCompile(`(?is)<script[^>]*type=["']application/ld\+json["'][^>]*>.*?</script>`)
	scriptPattern = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	stylePattern  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
)

// prepareContent projects the page onto the prompt budget. JSON-LD blocks
// are lifted out before scripts are stripped, the remaining markup is
// converted to markdown so the budget is spent on visible content, then
// everything is truncated to maxChars.
func prepareContent(html string, maxChars int) string {
	jsonLD := jsonLDPattern.FindAllString(html, -1)

	stripped := scriptPattern.ReplaceAllString(html, "")
	stripped = stylePattern.ReplaceAllString(stripped, "")

	body, err := htmltomarkdown.ConvertString(stripped)
	if err != nil {
		body = stripped
	}

	var b strings.Builder
	for _, block := range jsonLD {
		b.WriteString(block)
		b.WriteString("\n")
	}
	b.WriteString(body)

	content := b.String()
	if len(content) > maxChars {
		// back off to a rune boundary so umlauts are never cut in half
		cut := maxChars
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		content = content[:cut] + "\n... [truncated]"
	}
	return content
}

// buildPrompt asks the service for a JSON object containing only the
// listed missing fields, with a short German terminology guide.
func buildPrompt(content string, missing []string) string {
	return fmt.Sprintf(`You are an expert at extracting real estate data from Austrian apartment listings.

Extract the following fields from the listing content below and return ONLY a valid JSON object. Use null for values not present in the content. Do not include any field that is not in this list:
%s

=== GERMAN TERMINOLOGY GUIDE ===
- "Betriebskosten", "BK", "Nebenkosten", "NK" -> betriebskosten_monthly (monthly, in EUR)
- "Reparaturrücklage", "Reparaturfonds" -> reparaturruecklage (monthly, in EUR)
- "Kaufpreis" -> price (in EUR)
- "Wohnfläche", "Nutzfläche" -> size_sqm
- "Zimmer" -> rooms (can be decimal, e.g. 2.5)
- "Schlafzimmer" -> bedrooms, "Badezimmer"/"Bad" -> bathrooms
- "Stock"/"Etage" -> floor ("EG" = 0, "1. OG" = 1)
- "Baujahr" -> year_built
- "HWB" -> hwb_value (kWh/m²a), "fGEE" -> fgee_value
- "Energieklasse" -> energy_rating (A++ .. G)
- "Aufzug"/"Lift" -> elevator, "Balkon" -> balcony, "Tiefgarage"/"Garage"/"Stellplatz" -> parking
- "provisionsfrei" -> commission_free

Numbers use German formatting in the source ("1.234,56" means 1234.56); return plain JSON numbers.

=== LISTING CONTENT ===

%s

Return only the JSON object, no explanation.`, strings.Join(missing, ", "), content)
}
