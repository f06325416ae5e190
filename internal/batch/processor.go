package batch

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/povarna/generative-ai-agents/debate-agent/internal/generator"
	"github.com/rs/zerolog"
)

type Generator interface {
	Generate(ctx context.Context, kind generator.Kind, payload generator.Payload) (*generator.Result, error)
}

// OutputRecord is the result for one input line: items on success, error otherwise.
type OutputRecord struct {
	Line  int
	Kind  generator.Kind
	Items []json.RawMessage
	Error string
}

func (o OutputRecord) Failed() bool {
	return o.Error != ""
}

func (o OutputRecord) MarshalJSON() ([]byte, error) {
	if o.Failed() {
		return json.Marshal(struct {
			Line  int            `json:"line"`
			Kind  generator.Kind `json:"kind,omitempty"`
			Error string         `json:"error"`
		}{o.Line, o.Kind, o.Error})
	}

	items := o.Items
	if items == nil {
		items = []json.RawMessage{}
	}
	return json.Marshal(struct {
		Line  int               `json:"line"`
		Kind  generator.Kind    `json:"kind"`
		Items []json.RawMessage `json:"items"`
	}{o.Line, o.Kind, items})
}

type Processor struct {
	generator Generator
	workers   int
	logger    *zerolog.Logger
}

func NewProcessor(gen Generator, workers int, logger *zerolog.Logger) *Processor {
	if workers <= 0 {
		workers = 1
	}
	return &Processor{
		generator: gen,
		workers:   workers,
		logger:    logger,
	}
}

// Process fans records out to the worker pool. Results arrive in completion
// order; use OutputRecord.Line to correlate them with the input.
func (p *Processor) Process(ctx context.Context, records []InputRecord) <-chan OutputRecord {
	jobs := make(chan InputRecord)
	results := make(chan OutputRecord, p.workers)

	var wg sync.WaitGroup
	for range p.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for record := range jobs {
				results <- p.processOne(ctx, record)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, record := range records {
			select {
			case <-ctx.Done():
				p.logger.Warn().Int("line", record.LineNumber).Msg("Batch cancelled, skipping remaining records")
				return
			case jobs <- record:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func (p *Processor) processOne(ctx context.Context, record InputRecord) OutputRecord {
	if record.Error != nil {
		return OutputRecord{Line: record.LineNumber, Error: record.Error.Error()}
	}

	start := time.Now()
	result, err := p.generator.Generate(ctx, record.Kind, record.Payload)
	if err != nil {
		p.logger.Error().
			Err(err).
			Int("line", record.LineNumber).
			Str("kind", string(record.Kind)).
			Msg("Generation failed")
		return OutputRecord{Line: record.LineNumber, Kind: record.Kind, Error: err.Error()}
	}

	p.logger.Debug().
		Int("line", record.LineNumber).
		Int("items", len(result.Items)).
		Dur("duration", time.Since(start)).
		Msg("Record processed")

	return OutputRecord{Line: record.LineNumber, Kind: record.Kind, Items: result.Items}
}
