package batch

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Writer writes output records as JSON lines.
type Writer struct {
	buf     *bufio.Writer
	encoder *json.Encoder
	logger  *zerolog.Logger
	written int
}

func NewWriter(output io.Writer, logger *zerolog.Logger) *Writer {
	buf := bufio.NewWriter(output)
	return &Writer{
		buf:     buf,
		encoder: json.NewEncoder(buf),
		logger:  logger,
	}
}

func (w *Writer) Write(record OutputRecord) error {
	if err := w.encoder.Encode(record); err != nil {
		return fmt.Errorf("encode line %d: %w", record.Line, err)
	}
	w.written++
	return nil
}

// Close flushes buffered output.
func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	w.logger.Debug().Int("records", w.written).Msg("Output flushed")
	return nil
}
