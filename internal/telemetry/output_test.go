package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewCSVWriter_Disabled(t *testing.T) {
	w, err := NewCSVWriter("")
	if err != nil || w != nil {
		t.Fatalf("NewCSVWriter(\"\") = %v, %v; want nil, nil", w, err)
	}
	if err := w.Write(WindowStats{}); err != nil {
		t.Errorf("Write on nil writer = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close on nil writer = %v", err)
	}
}

func TestCSVWriter_WritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs", "telemetry.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter() error = %v", err)
	}
	rows := []WindowStats{
		{WindowStart: 1, WindowEnd: 60, Agents: 500, StepMean: 1.25, SpeedMean: 12},
		{WindowStart: 61, WindowEnd: 120, Agents: 500, StepMean: 1.5, SpeedMean: 11},
	}
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(raw), "window_start"); n != 1 {
		t.Errorf("header written %d times; want 1\n%s", n, raw)
	}

	got, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("read %d rows; want %d", len(got), len(rows))
	}
	for i := range rows {
		if got[i] != rows[i] {
			t.Errorf("row %d = %+v; want %+v", i, got[i], rows[i])
		}
	}
}
