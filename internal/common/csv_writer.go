package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"infinite-experiment/pilotlog/internal/constants"
	"infinite-experiment/pilotlog/internal/logging"
)

// CSVSection is one table of the logbook template: a title row, a row of
// presentation types, a row of column names and the data rows.
type CSVSection struct {
	Title   string
	Types   []string
	Columns []string
	Rows    [][]string
}

// RenderLogbookCSV writes the title row followed by each section, separated by
// blank rows. Every row is padded with empty cells to width. A section without
// rows still gets its headers and produces a warning.
func RenderLogbookCSV(w io.Writer, width int, sections ...CSVSection) ([]string, error) {
	cw := csv.NewWriter(w)
	var warnings []string

	write := func(cells []string) error {
		return cw.Write(padRow(cells, width))
	}

	if err := write([]string{constants.CSVTitle}); err != nil {
		return nil, err
	}

	for _, s := range sections {
		if len(s.Rows) == 0 {
			msg := fmt.Sprintf("%s has no rows", s.Title)
			warnings = append(warnings, msg)
			logging.Warn("[CSVWriter] Empty section", "section", s.Title)
		}

		if err := write(nil); err != nil {
			return nil, err
		}
		if err := write([]string{s.Title}); err != nil {
			return nil, err
		}
		if err := write(s.Types); err != nil {
			return nil, err
		}
		if err := write(s.Columns); err != nil {
			return nil, err
		}
		for _, row := range s.Rows {
			if err := write(row); err != nil {
				return nil, err
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return warnings, nil
}

// WriteLogbookCSVFile renders the sections to path, creating missing parent
// directories.
func WriteLogbookCSVFile(path string, width int, sections ...CSVSection) ([]string, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	warnings, err := RenderLogbookCSV(f, width, sections...)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close %s: %w", path, cerr)
	}
	if err != nil {
		return nil, err
	}

	logging.Info("[CSVWriter] CSV file created", "path", path)
	return warnings, nil
}

func padRow(cells []string, width int) []string {
	if len(cells) >= width {
		return cells
	}
	row := make([]string, width)
	copy(row, cells)
	return row
}
