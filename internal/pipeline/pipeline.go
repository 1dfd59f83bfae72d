// Package pipeline wires the extraction stages, the validation gate and
// the analyzer into the per-listing control flow. One listing is processed
// end to end by one goroutine; concurrent listings never share state.
package pipeline

import (
	"context"
	"log"

	"github.com/google/uuid"

	"wohnwert/internal/address"
	"wohnwert/internal/analyzer"
	"wohnwert/internal/domain"
	"wohnwert/internal/extract/assisted"
	"wohnwert/internal/extract/pattern"
	"wohnwert/internal/extract/structured"
	"wohnwert/internal/validator"
)

// Result is the terminal outcome for one listing: either a scored record
// or a structured rejection, never an error.
type Result struct {
	RunID      uuid.UUID                `json:"run_id"`
	Listing    *domain.Listing          `json:"listing"`
	Validation domain.ValidationOutcome `json:"validation"`
	Assessment *domain.Assessment       `json:"assessment,omitempty"`
}

// Pipeline holds the stage instances. The assisted extractor is optional;
// a nil value skips that stage entirely.
type Pipeline struct {
	structured *structured.Extractor
	pattern    *pattern.Extractor
	assisted   *assisted.Extractor
	engine     *validator.Engine
	analyzer   *analyzer.Analyzer
	logger     *log.Logger
}

func New(
	assistedExtractor *assisted.Extractor,
	engine *validator.Engine,
	scorer *analyzer.Analyzer,
	logger *log.Logger,
) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{
		structured: structured.New(),
		pattern:    pattern.New(),
		assisted:   assistedExtractor,
		engine:     engine,
		analyzer:   scorer,
		logger:     logger,
	}
}

// Process runs one listing through every stage. Extraction failures are
// absorbed along the way; the caller always receives a Result.
func (p *Pipeline) Process(ctx context.Context, doc domain.RawDocument) *Result {
	l := domain.NewListing(doc)

	domain.Merge(l, p.structured.Extract(doc.HTML), domain.SourceStructured)
	domain.Merge(l, p.pattern.Extract(doc.HTML), domain.SourcePattern)
	refineAddress(&l.Address)

	if p.assisted != nil && p.assisted.ShouldRun(l) {
		if ctx.Err() == nil {
			contribution := p.assisted.Extract(ctx, doc.HTML, l)
			domain.Merge(l, contribution, domain.SourceAssisted)
			refineAddress(&l.Address)
		} else {
			p.logger.Printf("pipeline.Pipeline: run canceled, skipping assisted stage for %s", doc.ListingID)
		}
	}

	result := &Result{
		RunID:      uuid.New(),
		Listing:    l,
		Validation: p.engine.Validate(l),
	}

	if !result.Validation.Valid {
		p.logger.Printf("pipeline.Pipeline: listing %s rejected: %v", doc.ListingID, result.Validation.Reasons())
		return result
	}

	result.Assessment = p.analyzer.Analyze(l)
	p.logger.Printf("pipeline.Pipeline: listing %s scored %.1f (%s)", doc.ListingID, result.Assessment.Score, result.Assessment.Recommendation)
	return result
}

// refineAddress splits a raw address string into components when the
// extractors only produced the unparsed form, then derives postal-code
// facts (state, Vienna district) for whatever is present.
func refineAddress(a *domain.Address) {
	if a.PostalCode == "" && a.City == "" && a.FullAddress != "" {
		parsed := address.Parse(a.FullAddress)
		if a.Street == "" {
			a.Street = parsed.Street
			a.HouseNumber = parsed.HouseNumber
		}
		a.PostalCode = parsed.PostalCode
		a.City = parsed.City
	}
	address.Enrich(a)
}
