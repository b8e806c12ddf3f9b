package services

import (
	"fmt"

	"infinite-experiment/pilotlog/internal/constants"
)

// FieldMapping is one export column: its template name, the meta key it reads
// and its presentation type.
type FieldMapping struct {
	Column string
	Key    string
	Type   constants.PresentationType
}

// MappingTable is an ordered, immutable list of column mappings.
type MappingTable struct {
	name   string
	fields []FieldMapping
}

type columnKey struct {
	column string
	key    string
}

// NewMappingTable pairs types with columns positionally. The two lists must be
// the same length and column names must be unique.
func NewMappingTable(name string, types []constants.PresentationType, columns []columnKey) (*MappingTable, error) {
	if len(types) != len(columns) {
		return nil, fmt.Errorf("%s mapping has %d types for %d columns", name, len(types), len(columns))
	}

	seen := make(map[string]bool, len(columns))
	fields := make([]FieldMapping, len(columns))
	for i, c := range columns {
		if c.column == "" || c.key == "" {
			return nil, fmt.Errorf("%s mapping has an empty column or key at position %d", name, i)
		}
		if seen[c.column] {
			return nil, fmt.Errorf("%s mapping repeats column %q", name, c.column)
		}
		seen[c.column] = true
		fields[i] = FieldMapping{Column: c.column, Key: c.key, Type: types[i]}
	}

	return &MappingTable{name: name, fields: fields}, nil
}

func mustMappingTable(name string, types []constants.PresentationType, columns []columnKey) *MappingTable {
	m, err := NewMappingTable(name, types, columns)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *MappingTable) Name() string { return m.name }

func (m *MappingTable) Len() int { return len(m.fields) }

// Fields returns a copy of the mappings in column order.
func (m *MappingTable) Fields() []FieldMapping {
	out := make([]FieldMapping, len(m.fields))
	copy(out, m.fields)
	return out
}

func (m *MappingTable) Types() []string {
	out := make([]string, len(m.fields))
	for i, f := range m.fields {
		out[i] = string(f.Type)
	}
	return out
}

func (m *MappingTable) Columns() []string {
	out := make([]string, len(m.fields))
	for i, f := range m.fields {
		out[i] = f.Column
	}
	return out
}

// ColumnIndex returns the position of column, or -1.
func (m *MappingTable) ColumnIndex(column string) int {
	for i, f := range m.fields {
		if f.Column == column {
			return i
		}
	}
	return -1
}

const (
	text    = constants.TypeText
	yyyy    = constants.TypeYYYY
	boolean = constants.TypeBoolean
	dec     = constants.TypeDecimal
	date    = constants.TypeDate
	hhmm    = constants.TypeHHMM
	number  = constants.TypeNumber
	packed  = constants.TypePackedDetail
)

var AircraftMapping = mustMappingTable("aircraft",
	[]constants.PresentationType{
		text, text, text, yyyy, text, text, text, text, text, text,
		boolean, boolean, boolean, boolean,
	},
	[]columnKey{
		{"AircraftID", "RefSearch"},
		{"EquipmentType", "EquipmentType"},
		{"TypeCode", "TypeCode"},
		{"Year", "Record_Modified"},
		{"Make", "Make"},
		{"Model", "Model"},
		{"Category", "Category"},
		{"Class", "Class"},
		{"GearType", "Tailwheel"},
		{"EngineType", "Power"},
		{"Complex", "Complex"},
		{"HighPerformance", "HighPerf"},
		{"Pressurized", "Kg5700"},
		{"TAA", "Aerobatic"},
	},
)

var FlightMapping = mustMappingTable("flight",
	[]constants.PresentationType{
		date, text, text, text, text,
		hhmm, hhmm, hhmm, hhmm, hhmm, hhmm,
		dec, dec, dec, dec, dec, dec, dec, number, dec,
		number, number, number, number, number,
		dec, dec, dec, dec, dec, dec, number,
		packed, packed, packed, packed, packed, packed,
		dec, dec, dec, dec, text, text,
		packed, packed, packed, packed, packed, packed,
		boolean, boolean, boolean, boolean, boolean,
		text, dec, dec,
	},
	[]columnKey{
		{"Date", "DateUTC"},
		{"AircraftID", "AircraftCode"},
		{"From", "DepCode"},
		{"To", "ArrCode"},
		{"Route", "Route"},
		{"TimeOut", "ArrTimeUTC"},
		{"TimeOff", "DepTimeUTC"},
		{"TimeOn", "LdgTimeUTC"},
		{"TimeIn", "ArrTimeUTC"},
		{"OnDuty", "DepOffset"},
		{"OffDuty", "ArrOffset"},
		{"TotalTime", "TotalTime"},
		{"PIC", "minPIC"},
		{"SIC", "minCOP"},
		{"Night", "minNIGHT"},
		{"Solo", "minSFR"},
		{"CrossCountry", "minXC"},
		{"NVG", "NVG"},
		{"NVGOps", "minAIR"},
		{"Distance", "Distance"},
		{"DayTakeoffs", "DayTakeoffs"},
		{"DayLandingsFullStop", "DayLandingsFullStop"},
		{"NightTakeoffs", "NightTakeoffs"},
		{"NightLandingsFullStop", "LdgNight"},
		{"AllLandings", "AllLandings"},
		{"ActualInstrument", "ActualInstrument"},
		{"SimulatedInstrument", "SimulatedInstrument"},
		{"HobbsStart", "HobbsIn"},
		{"HobbsEnd", "HobbsOut"},
		{"TachStart", "TachStart"},
		{"TachEnd", "TachEnd"},
		{"Holds", "Holding"},
		{"Approach1", "Approach1"},
		{"Approach2", "Approach2"},
		{"Approach3", "Approach3"},
		{"Approach4", "Approach4"},
		{"Approach5", "Approach5"},
		{"Approach6", "Approach6"},
		{"DualGiven", "DualGiven"},
		{"DualReceived", "DualReceived"},
		{"SimulatedFlight", "SimulatedFlight"},
		{"GroundTraining", "Training"},
		{"InstructorName", "InstructorName"},
		{"InstructorComments", "InstructorComments"},
		{"Person1", "Person1"},
		{"Person2", "Person2"},
		{"Person3", "Person3"},
		{"Person4", "Person4"},
		{"Person5", "Person5"},
		{"Person6", "Person6"},
		{"FlightReview", "FlightReview"},
		{"Checkride", "Checkride"},
		{"IPC", "IPC"},
		{"NVGProficiency", "NVGProficiency"},
		{"FAA6158", "FAA6158"},
		{"[Text]CustomFieldName", "[Text]CustomFieldName"},
		{"[Numeric]CustomFieldName", "[Numeric]CustomFieldName"},
		{"[Hours]CustomFieldName", "[Hours]CustomFieldName"},
	},
)

// TemplateWidth is the column count every CSV row is padded to: the width of
// the widest mapping.
func TemplateWidth() int {
	return max(AircraftMapping.Len(), FlightMapping.Len())
}
