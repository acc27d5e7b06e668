// Package sqlvalue defines the tagged scalar Value type that flows through
// parameter slots, literal extraction, and rendering. It is the absolute
// leaf of the module's dependency graph.
package sqlvalue

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidDecimalString mirrors snapsql's sentinel of the same name
// (config.go's errors.go) for the one conversion that can fail structurally.
var ErrInvalidDecimalString = errors.New("sqlvalue: invalid decimal string")

// Kind tags which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindDecimal
	KindString
	KindBytes
	KindDateTime
	KindDate
	KindTime
	KindUuid
	KindJSON
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindDecimal:
		return "Decimal"
	case KindString:
		return "String"
	case KindBytes:
		return "Bytes"
	case KindDateTime:
		return "DateTime"
	case KindDate:
		return "Date"
	case KindTime:
		return "Time"
	case KindUuid:
		return "Uuid"
	case KindJSON:
		return "Json"
	default:
		return "Unknown"
	}
}

// Value is a tagged scalar accepted as a parameter or extracted as a
// literal (spec §6 Inputs). Exactly one of the typed fields is meaningful,
// selected by Kind; this mirrors a Rust-style enum via a discriminated
// struct, the idiomatic Go substitute for a tagged union (spec §9).
type Value struct {
	kind     Kind
	b        bool
	i        int64
	f        float64
	dec      decimal.Decimal
	s        string
	bytes    []byte
	t        time.Time
	u        uuid.UUID
	jsonText string
}

func Null() Value                { return Value{kind: KindNull} }
func Bool(v bool) Value          { return Value{kind: KindBool, b: v} }
func Int(v int64) Value          { return Value{kind: KindInt, i: v} }
func Float(v float64) Value      { return Value{kind: KindFloat, f: v} }
func Decimal(v decimal.Decimal) Value { return Value{kind: KindDecimal, dec: v} }
func String(v string) Value      { return Value{kind: KindString, s: v} }
func Bytes(v []byte) Value       { return Value{kind: KindBytes, bytes: v} }
func DateTime(v time.Time) Value { return Value{kind: KindDateTime, t: v} }
func Date(v time.Time) Value     { return Value{kind: KindDate, t: v} }
func Time(v time.Time) Value     { return Value{kind: KindTime, t: v} }
func Uuid(v uuid.UUID) Value     { return Value{kind: KindUuid, u: v} }

// JSON wraps an already-serialized JSON document; the pipeline never parses
// it (spec §6: "The Json tag is opaque").
func JSON(raw string) Value { return Value{kind: KindJSON, jsonText: raw} }

// DecimalFromString parses a decimal literal the way a numeric SQL literal
// would be preserved without losing precision (grounded on snapsql's
// NewDecimalFromString in langs/snapsqlgo/decimal.go).
func DecimalFromString(s string) (Value, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %s", ErrInvalidDecimalString, s)
	}
	return Decimal(d), nil
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool)       { return v.b, v.kind == KindBool }
func (v Value) AsInt() (int64, bool)       { return v.i, v.kind == KindInt }
func (v Value) AsFloat() (float64, bool)   { return v.f, v.kind == KindFloat }
func (v Value) AsDecimal() (decimal.Decimal, bool) { return v.dec, v.kind == KindDecimal }
func (v Value) AsString() (string, bool)   { return v.s, v.kind == KindString }
func (v Value) AsBytes() ([]byte, bool)    { return v.bytes, v.kind == KindBytes }
func (v Value) AsTime() (time.Time, bool)  { return v.t, v.kind == KindDateTime || v.kind == KindDate || v.kind == KindTime }
func (v Value) AsUuid() (uuid.UUID, bool)  { return v.u, v.kind == KindUuid }
func (v Value) AsJSON() (string, bool)     { return v.jsonText, v.kind == KindJSON }

// Equal reports structural equality, used by the parameter registry's merge
// step to decide whether a repeated name is idempotent (spec §4.1).
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindDecimal:
		return v.dec.Equal(other.dec)
	case KindString:
		return v.s == other.s
	case KindBytes:
		return string(v.bytes) == string(other.bytes)
	case KindDateTime, KindDate, KindTime:
		return v.t.Equal(other.t)
	case KindUuid:
		return v.u == other.u
	case KindJSON:
		return v.jsonText == other.jsonText
	default:
		return false
	}
}

// GoString renders a debug form that, notably, preserves type identity
// (numeric vs string vs boolean vs null) as required by ParameterizeLiterals
// (spec §4.3).
func (v Value) GoString() string {
	switch v.kind {
	case KindNull:
		return "Null"
	case KindBool:
		return fmt.Sprintf("Bool(%v)", v.b)
	case KindInt:
		return fmt.Sprintf("Int(%d)", v.i)
	case KindFloat:
		return fmt.Sprintf("Float(%v)", v.f)
	case KindDecimal:
		return fmt.Sprintf("Decimal(%s)", v.dec.String())
	case KindString:
		return fmt.Sprintf("String(%q)", v.s)
	case KindBytes:
		return fmt.Sprintf("Bytes(%d bytes)", len(v.bytes))
	case KindDateTime, KindDate, KindTime:
		return fmt.Sprintf("%s(%s)", v.kind, v.t.Format(time.RFC3339))
	case KindUuid:
		return fmt.Sprintf("Uuid(%s)", v.u.String())
	case KindJSON:
		return fmt.Sprintf("Json(%s)", v.jsonText)
	default:
		return "Unknown"
	}
}
