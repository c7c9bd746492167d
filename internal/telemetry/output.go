package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// CSVWriter appends WindowStats rows to a CSV file.
type CSVWriter struct {
	path          string
	file          *os.File
	headerWritten bool
}

// NewCSVWriter creates the file at path, and its directory if needed.
// Returns nil if path is empty (output disabled); every method accepts a nil writer.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return &CSVWriter{path: path, file: f}, nil
}

// Write appends one row, preceded by the header on the first call.
func (w *CSVWriter) Write(stats WindowStats) error {
	if w == nil {
		return nil
	}
	records := []WindowStats{stats}

	if !w.headerWritten {
		if err := gocsv.Marshal(records, w.file); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		w.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, w.file); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// Path returns the output file path.
func (w *CSVWriter) Path() string {
	if w == nil {
		return ""
	}
	return w.path
}

func (w *CSVWriter) Close() error {
	if w == nil {
		return nil
	}
	return w.file.Close()
}

// ReadCSV loads every row of a telemetry file, mostly for analysis and tests.
func ReadCSV(path string) ([]WindowStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var rows []WindowStats
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("reading telemetry: %w", err)
	}
	return rows, nil
}
