package cache

import (
	"fmt"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindText Kind = iota
	KindBytes
	KindInt
	KindFloat
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the storable data variants: text, raw bytes,
// integer, and float. Each variant has an explicit encoding to store bytes
// rather than implicit stringification.
type Value struct {
	kind  Kind
	text  string
	raw   []byte
	num   int64
	float float64
}

// Text creates a text Value
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Bytes creates a raw bytes Value
func Bytes(b []byte) Value {
	return Value{kind: KindBytes, raw: b}
}

// Int creates an integer Value
func Int(i int64) Value {
	return Value{kind: KindInt, num: i}
}

// Float creates a float Value
func Float(f float64) Value {
	return Value{kind: KindFloat, float: f}
}

// Kind returns the variant held by the value
func (v Value) Kind() Kind {
	return v.kind
}

// Encode returns the store representation of the value: text as UTF-8
// bytes, raw bytes unchanged, integers as base-10 text, floats as the
// shortest round-tripping decimal text.
func (v Value) Encode() []byte {
	switch v.kind {
	case KindText:
		return []byte(v.text)
	case KindBytes:
		return v.raw
	case KindInt:
		return []byte(strconv.FormatInt(v.num, 10))
	case KindFloat:
		return []byte(strconv.FormatFloat(v.float, 'g', -1, 64))
	default:
		return nil
	}
}

// String returns the argument representation recorded in call history:
// text and bytes are quoted, numbers are printed as written.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return strconv.Quote(v.text)
	case KindBytes:
		return fmt.Sprintf("%q", v.raw)
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return strconv.FormatFloat(v.float, 'g', -1, 64)
	default:
		return "<invalid>"
	}
}
