package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"infinite-experiment/pilotlog/internal/common"
	"infinite-experiment/pilotlog/internal/constants"
	"infinite-experiment/pilotlog/internal/logging"
	"infinite-experiment/pilotlog/internal/metrics"
	"infinite-experiment/pilotlog/internal/models"
)

// LogbookReader lists stored aircraft and flights.
type LogbookReader interface {
	ListAircraft(ctx context.Context, filter models.AircraftFilter) ([]models.Entity, error)
	ListFlights(ctx context.Context, filter models.FlightFilter) ([]models.Entity, error)
}

// ExportOptions selects the records to export. The zero value exports all.
type ExportOptions struct {
	Aircraft models.AircraftFilter
	Flights  models.FlightFilter
}

// Projection holds rendered rows for both template sections.
type Projection struct {
	Aircraft [][]string
	Flights  [][]string
}

// ExportService projects stored records into the CSV template layout.
type ExportService struct {
	reader    LogbookReader
	exportDir string
	metrics   *metrics.MetricsRegistry
}

func NewExportService(reader LogbookReader, exportDir string, metricsReg *metrics.MetricsRegistry) *ExportService {
	return &ExportService{reader: reader, exportDir: exportDir, metrics: metricsReg}
}

// projectRow reads each mapped key from meta, coerces it and renders the cell.
func projectRow(mapping *MappingTable, meta models.Meta) []string {
	row := make([]string, mapping.Len())
	for i, f := range mapping.fields {
		row[i] = common.ConvertValue(meta.Get(f.Key), f.Type).String()
	}
	return row
}

// Project maps aircraft and flights through their mapping tables. Each
// flight's AircraftID column is replaced by the RefSearch of the aircraft it
// references, or left empty when that aircraft is not among the exported ones.
// Row order follows input order.
func Project(aircraft, flights []models.Entity) Projection {
	refs := make(map[string]string, len(aircraft))
	out := Projection{
		Aircraft: make([][]string, 0, len(aircraft)),
		Flights:  make([][]string, 0, len(flights)),
	}

	for _, a := range aircraft {
		out.Aircraft = append(out.Aircraft, projectRow(AircraftMapping, a.Meta))
		refs[a.GUID] = a.Meta.GetString("RefSearch")
	}

	idCol := FlightMapping.ColumnIndex("AircraftID")
	for _, f := range flights {
		row := projectRow(FlightMapping, f.Meta)
		if idCol >= 0 {
			row[idCol] = refs[f.AircraftGUID]
		}
		out.Flights = append(out.Flights, row)
	}

	return out
}

// Sections loads the selected records and returns the two template sections.
func (s *ExportService) Sections(ctx context.Context, opts ExportOptions) ([]common.CSVSection, error) {
	aircraft, err := s.reader.ListAircraft(ctx, opts.Aircraft)
	if err != nil {
		return nil, fmt.Errorf("failed to load aircraft: %w", err)
	}
	flights, err := s.reader.ListFlights(ctx, opts.Flights)
	if err != nil {
		return nil, fmt.Errorf("failed to load flights: %w", err)
	}

	p := Project(aircraft, flights)
	return []common.CSVSection{
		{
			Title:   constants.CSVAircraftSection,
			Types:   AircraftMapping.Types(),
			Columns: AircraftMapping.Columns(),
			Rows:    p.Aircraft,
		},
		{
			Title:   constants.CSVFlightsSection,
			Types:   FlightMapping.Types(),
			Columns: FlightMapping.Columns(),
			Rows:    p.Flights,
		},
	}, nil
}

// ResolvePath returns the absolute destination for name, taken relative to
// the working directory. An empty name gets a timestamped file under the
// export directory.
func (s *ExportService) ResolvePath(name string) (string, error) {
	if name == "" {
		name = filepath.Join(s.exportDir, DefaultExportName(time.Now()))
	}
	return filepath.Abs(name)
}

// DefaultExportName is the file name used when no destination is given.
func DefaultExportName(t time.Time) string {
	return fmt.Sprintf("%s-%s.csv", constants.DefaultExportPrefix, t.UTC().Format("20060102-150405"))
}

// ExportFile writes the CSV export to name (see ResolvePath).
func (s *ExportService) ExportFile(ctx context.Context, name string, opts ExportOptions) (*models.ExportResult, error) {
	path, err := s.ResolvePath(name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve export path %s: %w", name, err)
	}

	sections, err := s.Sections(ctx, opts)
	if err != nil {
		return nil, err
	}

	logging.Info("[Export] Writing CSV", "path", path)
	warnings, err := common.WriteLogbookCSVFile(path, TemplateWidth(), sections...)
	if err != nil {
		logging.Error("[Export] Failed to write CSV", "path", path, "error", err)
		return nil, err
	}

	return s.result(path, sections, warnings), nil
}

// WriteCSV streams the CSV export to w.
func (s *ExportService) WriteCSV(ctx context.Context, w io.Writer, opts ExportOptions) (*models.ExportResult, error) {
	sections, err := s.Sections(ctx, opts)
	if err != nil {
		return nil, err
	}

	warnings, err := common.RenderLogbookCSV(w, TemplateWidth(), sections...)
	if err != nil {
		return nil, fmt.Errorf("failed to render csv: %w", err)
	}
	return s.result("", sections, warnings), nil
}

func (s *ExportService) result(path string, sections []common.CSVSection, warnings []string) *models.ExportResult {
	res := &models.ExportResult{
		Path:         path,
		AircraftRows: len(sections[0].Rows),
		FlightRows:   len(sections[1].Rows),
		Warnings:     warnings,
	}
	s.metrics.RecordExportRows("aircraft", res.AircraftRows)
	s.metrics.RecordExportRows("flights", res.FlightRows)

	logging.Info("[Export] Completed",
		"path", path,
		"aircraft_rows", res.AircraftRows,
		"flight_rows", res.FlightRows,
		"warnings", len(warnings),
	)
	return res
}
