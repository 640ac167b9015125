// Package sink materializes flattened report tables on disk.
package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/opsreport/pdreport/pkg/report"
)

// Sink writes one flattened table per export run.
type Sink interface {
	Write(table report.Table) error
}

// CSV writes each table to <dir>/<table>.csv, header first, nil cells
// as empty fields. An existing file is overwritten; the export run owns
// the directory contents.
type CSV struct {
	dir    string
	logger zerolog.Logger
}

// NewCSV creates a CSV sink rooted at dir, creating it if needed.
func NewCSV(dir string) (*CSV, error) {
	if dir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", dir, err)
	}
	return &CSV{
		dir:    dir,
		logger: log.With().Str("component", "csv-sink").Logger(),
	}, nil
}

// Write materializes one table. The file is not guaranteed consistent
// if an error is returned partway through.
func (s *CSV) Write(table report.Table) error {
	path := filepath.Join(s.dir, table.Name+".csv")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(table.Header); err != nil {
		f.Close()
		return fmt.Errorf("write header %s: %w", path, err)
	}

	record := make([]string, len(table.Header))
	for _, row := range table.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) && row[i] != nil {
				record[i] = *row[i]
			}
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return fmt.Errorf("write row %s: %w", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	s.logger.Info().
		Str("path", path).
		Int("rows", len(table.Rows)).
		Msg("Wrote export file")

	return nil
}
