package dataset

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags the content of a Value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNumber
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "missing"
	}
}

// Value is a single table cell: a number, a string, or missing.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Missing returns the missing value.
func Missing() Value { return Value{} }

// Num wraps a float. NaN is normalised to missing.
func Num(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindNumber, num: f}
}

// Str wraps a string.
func Str(s string) Value { return Value{kind: KindString, str: s} }

// Bool encodes a flag as 0/1.
func Bool(b bool) Value {
	if b {
		return Num(1)
	}
	return Num(0)
}

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsMissing() bool { return v.kind == KindMissing }
func (v Value) IsNumber() bool  { return v.kind == KindNumber }
func (v Value) IsString() bool  { return v.kind == KindString }

// Float returns the numeric content and whether the value is a number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Text renders the value the way it is written to CSV. Missing renders empty.
func (v Value) Text() string {
	switch v.kind {
	case KindNumber:
		return FormatFloat(v.num)
	case KindString:
		return v.str
	default:
		return ""
	}
}

// FormatFloat renders integral floats without a fractional part.
func FormatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// naTokens mirrors the default NA markers of common dataframe readers.
var naTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// ParseCell converts a raw cell into a Value: NA tokens become missing,
// parseable floats become numbers, everything else stays a string.
func ParseCell(raw string) Value {
	s := strings.TrimSpace(raw)
	if _, ok := naTokens[s]; ok {
		return Missing()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return Num(f)
	}
	return Str(s)
}
