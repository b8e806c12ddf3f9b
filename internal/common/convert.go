package common

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"infinite-experiment/pilotlog/internal/constants"
	"infinite-experiment/pilotlog/internal/models"

	"github.com/shopspring/decimal"
)

// maxEpochSeconds is 9999-12-31T23:59:59Z.
const maxEpochSeconds = 253402300799

// ConvertValue coerces v for a column of presentation type t. It never fails:
// YYYY and Boolean fall back to an empty cell, Decimal falls back to the
// original value, and every other type passes through.
func ConvertValue(v models.Value, t constants.PresentationType) models.Value {
	switch t {
	case constants.TypeYYYY:
		return models.String(EpochYear(v))
	case constants.TypeBoolean:
		return models.String(BooleanMarker(v))
	case constants.TypeDecimal:
		return ToDecimal(v)
	default:
		return v
	}
}

// EpochYear returns the local-time year of an epoch-seconds value, or "" when
// the value is negative, out of range or not numeric.
func EpochYear(v models.Value) string {
	var secs float64
	switch v.Type() {
	case models.ValueNumber:
		n, _ := v.AsNumber()
		f, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return ""
		}
		secs = f
	case models.ValueString:
		s, _ := v.AsString()
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return ""
		}
		secs = f
	default:
		return ""
	}

	if math.IsNaN(secs) || secs < 0 || secs > maxEpochSeconds {
		return ""
	}

	whole, frac := math.Modf(secs)
	t := time.Unix(int64(whole), int64(frac*1e9)).Local()
	return strconv.Itoa(t.Year())
}

// BooleanMarker returns "x" for a truthy value and "" otherwise.
func BooleanMarker(v models.Value) string {
	if v.Truthy() {
		return constants.BooleanTrueMarker
	}
	return ""
}

// ToDecimal parses numbers and numeric strings as exact decimals, keeping
// their scale (1.50 stays 1.50). Anything else is returned unchanged.
func ToDecimal(v models.Value) models.Value {
	var lit string
	switch v.Type() {
	case models.ValueNumber:
		n, _ := v.AsNumber()
		lit = n.String()
	case models.ValueString:
		s, _ := v.AsString()
		lit = strings.TrimSpace(s)
	default:
		return v
	}

	d, err := decimal.NewFromString(lit)
	if err != nil {
		return v
	}

	places := int32(0)
	if d.Exponent() < 0 {
		places = -d.Exponent()
	}
	return models.Number(json.Number(d.StringFixed(places)))
}
