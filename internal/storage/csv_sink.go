package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"

	"founders-crawler/pkg/models"
)

// CSVSink writes records to a local CSV file, replacing any previous file.
type CSVSink struct {
	Path string
}

func NewCSVSink(path string) *CSVSink {
	return &CSVSink{Path: path}
}

// Save writes a header row and one row per record. An empty batch leaves
// the file system untouched.
func (s *CSVSink) Save(_ context.Context, batch []models.FounderRecord) error {
	if len(batch) == 0 {
		slog.Warn("no records to export", "path", s.Path)
		return nil
	}

	f, err := os.Create(s.Path)
	if err != nil {
		return err
	}

	if err := WriteCSV(f, batch); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", s.Path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	slog.Info("saved records", "count", len(batch), "path", s.Path)
	return nil
}

// WriteCSV writes the header and records in models.Columns order.
func WriteCSV(w io.Writer, records []models.FounderRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.Columns); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write(rec.Row()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
