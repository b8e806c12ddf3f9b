package constants

// PresentationType is the column type label the CSV template prints in the
// first header row of each section. It also selects the coercion applied to
// the column's values on export.
type PresentationType string

const (
	TypeText         PresentationType = "Text"
	TypeYYYY         PresentationType = "YYYY"
	TypeBoolean      PresentationType = "Boolean"
	TypeDecimal      PresentationType = "Decimal"
	TypeDate         PresentationType = "Date"
	TypeHHMM         PresentationType = "hhmm"
	TypeNumber       PresentationType = "Number"
	TypePackedDetail PresentationType = "Packed Detail"
)

// CSV template layout
const (
	CSVTitle            = "ForeFlight Logbook Import"
	CSVAircraftSection  = "Aircraft Table"
	CSVFlightsSection   = "Flights Table"
	BooleanTrueMarker   = "x"
	DefaultExportPrefix = "logbook"
)
