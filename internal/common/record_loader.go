package common

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"infinite-experiment/pilotlog/internal/logging"

	"github.com/tidwall/gjson"
)

// ErrLoad marks a file that could not be read as a record array.
var ErrLoad = errors.New("failed to load records")

// RawRecord is one element of an export file before classification.
// Malformed elements (anything but an object) are kept so the import can
// report them by position.
type RawRecord struct {
	Position  int
	Table     string
	HasTable  bool
	Malformed bool
	JSON      []byte
}

// LoadRecordsFile reads an export file from disk.
func LoadRecordsFile(path string) ([]RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	return LoadRecords(data)
}

// LoadRecordsReader reads an export from r, e.g. an uploaded file.
func LoadRecordsReader(r io.Reader) ([]RawRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return LoadRecords(data)
}

// LoadRecords parses a JSON array of records. Some exports escape every
// quote (\"); when the text does not parse, those are unescaped and parsing
// is retried once. Only a document that is not an array fails the load.
func LoadRecords(data []byte) ([]RawRecord, error) {
	if !gjson.ValidBytes(data) {
		repaired := bytes.ReplaceAll(data, []byte(`\"`), []byte(`"`))
		if !gjson.ValidBytes(repaired) {
			return nil, fmt.Errorf("%w: input is not valid JSON", ErrLoad)
		}
		logging.Warn("[RecordLoader] Input repaired by unescaping quotes")
		data = repaired
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: expected a JSON array of records", ErrLoad)
	}

	records := make([]RawRecord, 0)
	malformed := 0
	root.ForEach(func(_, value gjson.Result) bool {
		rec := RawRecord{Position: len(records), JSON: []byte(value.Raw)}
		if !value.IsObject() {
			rec.Malformed = true
			malformed++
		} else if t := value.Get("table"); t.Exists() && t.Type != gjson.Null {
			rec.Table = t.String()
			rec.HasTable = true
		}
		records = append(records, rec)
		return true
	})

	if malformed > 0 {
		logging.Warn("[RecordLoader] Elements that are not objects", "count", malformed)
	}
	logging.Debug("[RecordLoader] Loaded records", "count", len(records))
	return records, nil
}
