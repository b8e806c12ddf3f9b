package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeta_UnmarshalKeepsScalarTypes(t *testing.T) {
	var m Meta
	raw := `{"RefSearch":"N123AB","Complex":true,"TotalTime":1.50,"Seats":4,"Notes":null,"Tags":["a"]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &m))

	s, ok := m.Get("RefSearch").AsString()
	assert.True(t, ok)
	assert.Equal(t, "N123AB", s)

	b, ok := m.Get("Complex").AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	n, ok := m.Get("TotalTime").AsNumber()
	assert.True(t, ok)
	assert.Equal(t, "1.50", n.String())

	assert.True(t, m.Get("Notes").IsAbsent())
	assert.True(t, m.Get("Missing").IsAbsent())
	assert.Equal(t, ValueRaw, m.Get("Tags").Type())
	assert.Equal(t, `["a"]`, m.Get("Tags").String())
}

func TestMeta_MarshalRoundTripPreservesLiterals(t *testing.T) {
	var m Meta
	raw := `{"a":1.50,"b":"x","c":false,"d":{"k":1}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &m))

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
	assert.Contains(t, string(out), "1.50")
}

func TestValue_Truthy(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"absent", Absent(), false},
		{"empty string", String(""), false},
		{"string", String("yes"), true},
		{"zero", Int(0), false},
		{"zero float", Number("0.0"), false},
		{"number", Float(2.5), true},
		{"false", Bool(false), false},
		{"true", Bool(true), true},
		{"empty array", Raw(json.RawMessage(`[]`)), false},
		{"empty object", Raw(json.RawMessage(`{ }`)), false},
		{"array", Raw(json.RawMessage(`[1]`)), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.v.Truthy())
		})
	}
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("Aircraft")
	assert.True(t, ok)
	assert.Equal(t, KindAircraft, k)

	k, ok = ParseKind("imagepic")
	assert.True(t, ok)
	assert.Equal(t, KindImagePic, k)

	k, ok = ParseKind("myQueryBuild")
	assert.True(t, ok)
	assert.Equal(t, KindMyQueryBuild, k)

	_, ok = ParseKind("Airport")
	assert.False(t, ok)

	assert.False(t, KindAircraft.IgnoresDuplicates())
	assert.True(t, KindFlight.IgnoresDuplicates())
}

func TestImportReport_Finish(t *testing.T) {
	r := NewImportReport("run-1", "file.json")
	r.RecordSuccess(KindPilot, 3, 1)
	r.RecordFailure(FailedRecord{Position: 4, Kind: KindFlight, Cause: "boom"})
	r.Finish()

	assert.Equal(t, 3, r.Succeeded)
	assert.Equal(t, 1, r.Failed)
	assert.Equal(t, int64(2), r.Duplicates)
	assert.Equal(t, 1, r.ByKind[KindFlight].Failed)
	assert.False(t, r.FinishedAt.IsZero())
}

func TestValue_LiteralRoundTrip(t *testing.T) {
	for _, lit := range []string{`"125880"`, `125880`, `1616317613.50`, `true`, `{"a":1}`} {
		v, err := ParseLiteral(lit)
		require.NoError(t, err, lit)
		assert.Equal(t, lit, v.Literal())
	}

	v, err := ParseLiteral("")
	require.NoError(t, err)
	assert.True(t, v.IsAbsent())
	assert.Equal(t, "null", Absent().Literal())

	_, err = ParseLiteral("12abc")
	assert.Error(t, err)
}

func TestRecord_AcceptsAnyTagType(t *testing.T) {
	var rec Record
	require.NoError(t, json.Unmarshal([]byte(`{"guid":"A1","user_id":"125880","platform":9}`), &rec))
	assert.Equal(t, String("125880"), rec.UserID)
	assert.Equal(t, `9`, rec.Platform.Literal())
	assert.True(t, rec.Modified.IsAbsent())
}
