package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/batch"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/setup"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type options struct {
	input   string
	output  string
	workers int
	dryRun  bool
}

var errInvalidInput = errors.New("input contains invalid records")

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var opts options
	flag.StringVar(&opts.input, "input", "", "Input JSONL file path, '-' for stdin")
	flag.StringVar(&opts.output, "output", "", "Output JSONL file path (default: stdout)")
	flag.IntVar(&opts.workers, "workers", 1, "Concurrent generation workers")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "Validate input without generating")
	flag.Parse()

	if opts.input == "" {
		log.Fatal().Msg("required flag -input not provided")
	}

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		log.Error().Err(err).Msg("Batch failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	startTime := time.Now()

	in, closeIn, err := openInput(opts.input)
	if err != nil {
		return err
	}
	defer closeIn()

	var records []batch.InputRecord
	invalid := 0
	for record := range batch.NewReader(in, &log.Logger).ReadAll(ctx) {
		if record.Error != nil {
			invalid++
		}
		records = append(records, record)
	}

	log.Info().Int("total", len(records)).Int("invalid", invalid).Msg("Input parsed")

	if opts.dryRun {
		if invalid > 0 {
			return fmt.Errorf("%w: %d of %d", errInvalidInput, invalid, len(records))
		}
		log.Info().Msg("Validation successful")
		return nil
	}

	deps, err := setup.WireGenerator(ctx, setup.LoadConfig(), &log.Logger)
	if err != nil {
		return fmt.Errorf("wire dependencies: %w", err)
	}

	out, closeOut, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer closeOut()

	writer := batch.NewWriter(out, deps.Logger)
	processor := batch.NewProcessor(deps.Generator, opts.workers, deps.Logger)

	succeeded, failed := 0, 0
	for result := range processor.Process(ctx, records) {
		if err := writer.Write(result); err != nil {
			return err
		}
		if result.Failed() {
			failed++
		} else {
			succeeded++
		}
	}

	if err := writer.Close(); err != nil {
		return err
	}

	log.Info().
		Int("success", succeeded).
		Int("errors", failed).
		Dur("duration", time.Since(startTime)).
		Msg("Batch processing complete")

	return ctx.Err()
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		log.Info().Msg("Reading from stdin")
		return os.Stdin, func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input file: %w", err)
	}
	log.Info().Str("file", path).Msg("Reading input file")
	return f, func() { _ = f.Close() }, nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		log.Info().Msg("Writing to stdout")
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	log.Info().Str("file", path).Msg("Writing to output file")
	return f, func() { _ = f.Close() }, nil
}
