package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/povarna/generative-ai-agents/debate-agent/internal/generator"
	"github.com/rs/zerolog"
)

const maxLineSize = 1024 * 1024

// InputRecord is one parsed JSONL line. Error is set when the line is not a
// valid generation request; Kind and Payload are then empty.
type InputRecord struct {
	LineNumber int
	Kind       generator.Kind
	Payload    generator.Payload
	Error      error
}

type Reader struct {
	input  io.Reader
	logger *zerolog.Logger
}

func NewReader(input io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{
		input:  input,
		logger: logger,
	}
}

// ReadAll streams records until the input ends or ctx is cancelled.
// Blank lines are skipped.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	records := make(chan InputRecord)

	go func() {
		defer close(records)

		scanner := bufio.NewScanner(r.input)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		lineNumber := 0
		for scanner.Scan() {
			lineNumber++

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			record := parseLine(lineNumber, line)
			if record.Error != nil {
				r.logger.Warn().
					Int("line", lineNumber).
					Err(record.Error).
					Msg("Invalid input record")
			}

			select {
			case <-ctx.Done():
				return
			case records <- record:
			}
		}

		if err := scanner.Err(); err != nil {
			r.logger.Error().Err(err).Int("line", lineNumber).Msg("Failed to read input")
			select {
			case <-ctx.Done():
			case records <- InputRecord{LineNumber: lineNumber + 1, Error: fmt.Errorf("read input: %w", err)}:
			}
		}
	}()

	return records
}

func parseLine(lineNumber int, line string) InputRecord {
	var request generator.Request
	if err := json.Unmarshal([]byte(line), &request); err != nil {
		return InputRecord{LineNumber: lineNumber, Error: fmt.Errorf("invalid JSON: %w", err)}
	}

	kind, payload, err := request.Decode()
	if err != nil {
		return InputRecord{LineNumber: lineNumber, Error: err}
	}

	return InputRecord{
		LineNumber: lineNumber,
		Kind:       kind,
		Payload:    payload,
	}
}
