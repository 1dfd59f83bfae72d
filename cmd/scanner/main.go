// Command scanner runs the extraction and scoring pipeline over a directory
// of saved listing pages and writes the results as CSV and JSON.
// Usage: go run ./cmd/scanner
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"wohnwert/internal/analyzer"
	"wohnwert/internal/config"
	"wohnwert/internal/csvexport"
	"wohnwert/internal/domain"
	"wohnwert/internal/extract/assisted"
	"wohnwert/internal/inference/ollama"
	"wohnwert/internal/pipeline"
	"wohnwert/internal/validator"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	docs, err := loadDocuments(cfg.Scanner.InputDir, cfg.Scanner.Portal)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		log.Printf("scanner: no .html files found in %s, nothing to do", cfg.Scanner.InputDir)
		return nil
	}

	var assistedExtractor *assisted.Extractor
	if cfg.Assisted.Enabled {
		assistedExtractor = assisted.New(ollama.New(&cfg.Assisted), &cfg.Assisted, log.Default())
		log.Printf("scanner: assisted extraction enabled (model=%s, trigger=%s)", cfg.Assisted.Model, cfg.Assisted.TriggerMode)
	}

	p := pipeline.New(
		assistedExtractor,
		validator.NewRequiredEngine(cfg.Analysis.MinSizeSQM),
		analyzer.New(&cfg.Analysis, &cfg.Scoring),
		log.Default(),
	)
	runner := pipeline.NewRunner(p, cfg.Scanner.Concurrency, log.Default())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results := runner.Run(ctx, docs)

	if err := writeOutputs(cfg.Scanner.OutputDir, results); err != nil {
		return err
	}

	scored := 0
	for _, res := range results {
		if res.Assessment != nil {
			scored++
		}
	}
	log.Printf("scanner: done (%d listings, %d scored, %d rejected)", len(results), scored, len(results)-scored)
	return nil
}

// loadDocuments reads every .html file in dir into a RawDocument. The file
// name (without extension) becomes the listing ID and the file modification
// time stands in for the fetch time. A sidecar file <name>.url, when
// present, supplies the source URL.
func loadDocuments(dir, portal string) ([]domain.RawDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input dir %s: %w", dir, err)
	}

	var docs []domain.RawDocument
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".html" && ext != ".htm" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		sourceURL := ""
		if urlData, err := os.ReadFile(filepath.Join(dir, base+".url")); err == nil {
			sourceURL = strings.TrimSpace(string(urlData))
		}

		docs = append(docs, domain.RawDocument{
			ListingID: base,
			SourceURL: sourceURL,
			Portal:    portal,
			HTML:      string(data),
			FetchedAt: info.ModTime().UTC(),
		})
	}

	log.Printf("scanner: loaded %d documents from %s", len(docs), dir)
	return docs, nil
}

// writeOutputs writes the CSV summary and the full JSON results into dir.
func writeOutputs(dir string, results []*pipeline.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir %s: %w", dir, err)
	}

	csvPath := filepath.Join(dir, csvexport.BuildFilename("wohnwert_scan"))
	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", csvPath, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(csvexport.BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}
	w := csvexport.NewWriter(f)
	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	if err := w.WriteResults(results); err != nil {
		return fmt.Errorf("writing CSV rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}

	jsonPath := filepath.Join(dir, fmt.Sprintf("wohnwert_scan_%s.json", time.Now().Format("2006-01-02")))
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", jsonPath, err)
	}

	log.Printf("scanner: wrote %s and %s", csvPath, jsonPath)
	return nil
}
