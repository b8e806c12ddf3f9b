package common

import (
	"encoding/json"
	"math"
	"testing"

	"infinite-experiment/pilotlog/internal/constants"
	"infinite-experiment/pilotlog/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestEpochYear(t *testing.T) {
	cases := []struct {
		name string
		in   models.Value
		want string
	}{
		{"number", models.Int(1616317613), "2021"},
		{"fractional", models.Number("1616317613.75"), "2021"},
		{"numeric string", models.String(" 1616317613 "), "2021"},
		{"negative", models.Int(-1), ""},
		{"garbage", models.String("not-a-time"), ""},
		{"empty", models.String(""), ""},
		{"absent", models.Absent(), ""},
		{"bool", models.Bool(true), ""},
		{"too large", models.Float(math.MaxFloat64), ""},
		{"nan string", models.String("NaN"), ""},
		{"raw", models.Raw(json.RawMessage(`[1]`)), ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EpochYear(tc.in))
		})
	}
}

func TestBooleanMarker(t *testing.T) {
	assert.Equal(t, "x", BooleanMarker(models.Bool(true)))
	assert.Equal(t, "", BooleanMarker(models.Bool(false)))
	assert.Equal(t, "x", BooleanMarker(models.Int(1)))
	assert.Equal(t, "", BooleanMarker(models.Int(0)))
	assert.Equal(t, "x", BooleanMarker(models.String("yes")))
	assert.Equal(t, "", BooleanMarker(models.String("")))
	assert.Equal(t, "", BooleanMarker(models.Absent()))
}

func TestToDecimal(t *testing.T) {
	cases := []struct {
		name string
		in   models.Value
		want string
	}{
		{"keeps scale", models.Number("1.50"), "1.50"},
		{"integer", models.Int(42), "42"},
		{"string", models.String(" 12.345 "), "12.345"},
		{"exponent", models.Number("1e3"), "1000"},
		{"negative", models.String("-0.25"), "-0.25"},
		{"garbage passes through", models.String("abc"), "abc"},
		{"empty passes through", models.String(""), ""},
		{"absent passes through", models.Absent(), ""},
		{"bool passes through", models.Bool(true), "true"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ToDecimal(tc.in).String())
		})
	}
}

func TestConvertValue_IsTotal(t *testing.T) {
	inputs := []models.Value{
		models.Absent(),
		models.String(""),
		models.String("garbage"),
		models.String("-5"),
		models.Number("99999999999999999999999"),
		models.Bool(false),
		models.Raw(json.RawMessage(`{"nested":true}`)),
	}
	types := []constants.PresentationType{
		constants.TypeYYYY,
		constants.TypeBoolean,
		constants.TypeDecimal,
		constants.TypeText,
		constants.TypeHHMM,
		constants.TypePackedDetail,
	}

	for _, typ := range types {
		for _, in := range inputs {
			assert.NotPanics(t, func() { _ = ConvertValue(in, typ) })
		}
	}

	text := models.String("KJFK")
	assert.True(t, text.Equal(ConvertValue(text, constants.TypeText)))
	assert.Equal(t, "x", ConvertValue(models.Bool(true), constants.TypeBoolean).String())
	assert.Equal(t, "2021", ConvertValue(models.Int(1616317613), constants.TypeYYYY).String())
}
