// Package assisted recovers fields the deterministic extractors missed by
// delegating to an external inference service. The stage is optional and
// strictly best-effort: unreachable service, timeouts and unparsable
// responses all degrade to an empty contribution, never an error.
package assisted

import (
	"context"
	"log"
	"time"

	"wohnwert/internal/config"
	"wohnwert/internal/domain"
	"wohnwert/internal/port"
)

// Extractor drives one assisted-extraction call per listing.
type Extractor struct {
	client port.InferenceClient
	cfg    *config.AssistedConfig
	logger *log.Logger
}

func New(client port.InferenceClient, cfg *config.AssistedConfig, logger *log.Logger) *Extractor {
	if logger == nil {
		logger = log.Default()
	}
	return &Extractor{client: client, cfg: cfg, logger: logger}
}

// ShouldRun evaluates the configured trigger mode against the record as it
// stands after the deterministic stages.
func (e *Extractor) ShouldRun(l *domain.Listing) bool {
	if !e.cfg.Enabled {
		return false
	}
	switch e.cfg.TriggerMode {
	case "always":
		return true
	case "aggressive":
		return len(missingFields(l)) > 0
	default: // conservative
		return requiredMissing(l)
	}
}

// Extract asks the inference service for the record's missing fields and
// returns a partial listing of the values that survived the quality gate.
// Every failure path returns an empty partial listing.
func (e *Extractor) Extract(ctx context.Context, html string, current *domain.Listing) *domain.Listing {
	empty := &domain.Listing{
		Provenance: make(map[string]domain.FieldSource),
		Notes:      make(map[string]string),
	}

	missing := missingFields(current)
	if len(missing) == 0 {
		return empty
	}

	// Hard wall-clock ceiling for the whole operation; the HTTP client
	// carries its own per-request read timeouts underneath.
	ctx, cancel := context.WithTimeout(ctx, e.cfg.ExtractionTimeout())
	defer cancel()

	if err := e.client.Available(ctx); err != nil {
		e.logger.Printf("assisted.Extractor: service unavailable, skipping: %v", err)
		return empty
	}

	content := prepareContent(html, e.cfg.HTMLMaxChars)
	prompt := buildPrompt(content, missing)

	started := time.Now()
	out, err := e.client.Generate(ctx, port.GenerateInput{Prompt: prompt})
	if err != nil {
		e.logger.Printf("assisted.Extractor: inference call failed after %s: %v", time.Since(started).Round(time.Millisecond), err)
		return empty
	}

	fields, strategy, err := parseResponse(out.Text)
	if err != nil {
		e.logger.Printf("assisted.Extractor: response unparsable after all strategies (model %s, %d chars)", out.ModelUsed, len(out.Text))
		return empty
	}
	e.logger.Printf("assisted.Extractor: parsed %d fields via %s strategy in %s", len(fields), strategy, time.Since(started).Round(time.Millisecond))

	return applyGate(fields, e.cfg.QualityCheckEnabled, e.logger)
}
