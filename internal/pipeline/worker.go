package pipeline

import (
	"context"
	"log"
	"sync"

	"wohnwert/internal/domain"
)

// Runner fans a batch of documents out over a bounded pool of goroutines.
// Each document gets its own Process call; results keep input order.
type Runner struct {
	pipeline    *Pipeline
	concurrency int
	logger      *log.Logger
}

func NewRunner(p *Pipeline, concurrency int, logger *log.Logger) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{pipeline: p, concurrency: concurrency, logger: logger}
}

// Run processes docs concurrently and returns one Result per processed
// document, in input order. On context cancellation no new documents are
// started; in-flight ones finish and their results are kept.
func (r *Runner) Run(ctx context.Context, docs []domain.RawDocument) []*Result {
	r.logger.Printf("pipeline.Runner: started (documents=%d, concurrency=%d)", len(docs), r.concurrency)

	sem := make(chan struct{}, r.concurrency)
	var wg sync.WaitGroup
	slots := make([]*Result, len(docs))

	for i, doc := range docs {
		if ctx.Err() != nil {
			r.logger.Printf("pipeline.Runner: context canceled, stopping after %d of %d documents", i, len(docs))
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(idx int, d domain.RawDocument) {
			defer wg.Done()
			defer func() { <-sem }()
			slots[idx] = r.pipeline.Process(ctx, d)
		}(i, doc)
	}

	wg.Wait()

	results := make([]*Result, 0, len(docs))
	for _, res := range slots {
		if res != nil {
			results = append(results, res)
		}
	}
	r.logger.Printf("pipeline.Runner: finished (%d results)", len(results))
	return results
}
