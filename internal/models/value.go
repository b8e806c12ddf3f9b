package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

type ValueType uint8

const (
	ValueAbsent ValueType = iota
	ValueString
	ValueNumber
	ValueBool
	// ValueRaw holds a nested object or array verbatim.
	ValueRaw
)

func (t ValueType) String() string {
	switch t {
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueBool:
		return "bool"
	case ValueRaw:
		return "raw"
	default:
		return "absent"
	}
}

// Value is one scalar from a record's meta bag. Numbers keep their JSON
// literal so decimals like 1.50 survive a round trip unchanged.
type Value struct {
	typ ValueType
	str string
	b   bool
}

func Absent() Value { return Value{} }

func String(s string) Value { return Value{typ: ValueString, str: s} }

func Bool(b bool) Value { return Value{typ: ValueBool, b: b} }

// Number wraps a JSON number literal.
func Number(n json.Number) Value { return Value{typ: ValueNumber, str: n.String()} }

func Float(f float64) Value {
	return Value{typ: ValueNumber, str: strconv.FormatFloat(f, 'f', -1, 64)}
}

func Int(i int64) Value { return Value{typ: ValueNumber, str: strconv.FormatInt(i, 10)} }

func Raw(raw json.RawMessage) Value {
	return Value{typ: ValueRaw, str: string(bytes.TrimSpace(raw))}
}

func (v Value) Type() ValueType { return v.typ }

func (v Value) IsAbsent() bool { return v.typ == ValueAbsent }

func (v Value) AsString() (string, bool) {
	return v.str, v.typ == ValueString
}

func (v Value) AsNumber() (json.Number, bool) {
	return json.Number(v.str), v.typ == ValueNumber
}

func (v Value) AsBool() (bool, bool) {
	return v.b, v.typ == ValueBool
}

// Truthy follows the usual dynamic-language rules: empty strings, zero,
// false, absent values and empty containers are false.
func (v Value) Truthy() bool {
	switch v.typ {
	case ValueString:
		return v.str != ""
	case ValueNumber:
		f, err := strconv.ParseFloat(v.str, 64)
		return err != nil || f != 0
	case ValueBool:
		return v.b
	case ValueRaw:
		r := gjson.Parse(v.str)
		switch {
		case r.IsArray():
			return len(r.Array()) > 0
		case r.IsObject():
			return len(r.Map()) > 0
		}
		return r.Exists()
	default:
		return false
	}
}

// String renders the value as a CSV cell.
func (v Value) String() string {
	switch v.typ {
	case ValueString, ValueNumber, ValueRaw:
		return v.str
	case ValueBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

func (v Value) Equal(o Value) bool {
	return v.typ == o.typ && v.str == o.str && v.b == o.b
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.typ {
	case ValueString:
		return json.Marshal(v.str)
	case ValueNumber, ValueRaw:
		return []byte(v.str), nil
	case ValueBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*v = Absent()
		return nil
	}

	switch data[0] {
	case 'n':
		*v = Absent()
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
	case '{', '[':
		*v = Raw(append(json.RawMessage(nil), data...))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid meta value %s: %w", data, err)
		}
		*v = Number(n)
	}
	return nil
}

// Literal returns the JSON text of v; absent values render as null.
func (v Value) Literal() string {
	b, _ := v.MarshalJSON()
	return string(b)
}

// ParseLiteral reads back a value written by Literal. An empty string is
// absent.
func ParseLiteral(s string) (Value, error) {
	var v Value
	if s == "" {
		return v, nil
	}
	if err := v.UnmarshalJSON([]byte(s)); err != nil {
		return Absent(), err
	}
	return v, nil
}

// Meta is a record's attribute bag.
type Meta map[string]Value

// Get returns the value under key, or an absent value.
func (m Meta) Get(key string) Value {
	if m == nil {
		return Absent()
	}
	return m[key]
}

// GetString returns the value under key rendered as text.
func (m Meta) GetString(key string) string {
	return m.Get(key).String()
}
