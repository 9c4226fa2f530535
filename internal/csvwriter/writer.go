// Package csvwriter exports prepared training data as CSV.
package csvwriter

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/Shayanthavi/FitTrack-AI/internal/dataset"
)

// LabelColumn is the header of the target column.
const LabelColumn = "health_score"

// Writer is a simple CSV writer.
type Writer struct {
	file   *os.File
	writer *csv.Writer
	logger *zap.Logger
	mu     sync.Mutex
}

// NewWriter creates a new CSV writer.
func NewWriter(filePath string, logger *zap.Logger) (*Writer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV file: %w", err)
	}

	return &Writer{
		file:   file,
		writer: csv.NewWriter(file),
		logger: logger,
	}, nil
}

// Write writes a record to the CSV file.
func (w *Writer) Write(record []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write record to CSV: %w", err)
	}
	return nil
}

// WritePrepared writes the header followed by one row per prepared sample,
// features in the dataset's feature order and the label last.
func (w *Writer) WritePrepared(p *dataset.Prepared) error {
	header := append(append([]string{}, p.FeatureOrder...), LabelColumn)
	if err := w.Write(header); err != nil {
		return err
	}
	record := make([]string, len(header))
	for i, row := range p.Features {
		for j, v := range row {
			record[j] = formatFloat(v)
		}
		record[len(row)] = formatFloat(p.Targets[i])
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.logger.Info("Prepared dataset written",
		zap.String("path", w.file.Name()),
		zap.Int("rows", len(p.Features)))
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Flush flushes any buffered data to the underlying file.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writer.Flush()
	return w.writer.Error()
}

// Close flushes and closes the file.
func (w *Writer) Close() error {
	flushErr := w.Flush()
	if err := w.file.Close(); err != nil {
		return err
	}
	return flushErr
}
