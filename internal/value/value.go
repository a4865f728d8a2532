// Package value holds the JSON data model returned by the REST backend.
//
// Unlike map[string]any, a Mapping keeps its entries in document order so
// that rendered output follows the order the backend sent.
package value

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Kind discriminates the variants of Value.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Sequence
	Mapping
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Sequence:
		return "sequence"
	case Mapping:
		return "mapping"
	default:
		return "invalid"
	}
}

// Entry is a single key/value pair of a Mapping.
type Entry struct {
	Key   string
	Value Value
}

// Value is a tagged union over the JSON value kinds. The zero Value is Null.
type Value struct {
	kind    Kind
	boolean bool
	text    string // number literal or string payload
	items   []Value
	entries []Entry
}

func NewNull() Value { return Value{} }

func NewBool(b bool) Value { return Value{kind: Bool, boolean: b} }

// NewNumber wraps a JSON number literal. The literal is kept verbatim.
func NewNumber(literal string) Value { return Value{kind: Number, text: literal} }

func NewString(s string) Value { return Value{kind: String, text: s} }

func NewSequence(items ...Value) Value { return Value{kind: Sequence, items: items} }

// NewMapping builds a Mapping whose iteration order is the order of entries.
func NewMapping(entries ...Entry) Value { return Value{kind: Mapping, entries: entries} }

func (v Value) Kind() Kind { return v.kind }

// Bool returns the boolean payload and whether v is a Bool.
func (v Value) Bool() (bool, bool) { return v.boolean, v.kind == Bool }

// Text returns the literal of a Number or the payload of a String.
// Other kinds return "".
func (v Value) Text() string {
	if v.kind == Number || v.kind == String {
		return v.text
	}
	return ""
}

func (v Value) Items() []Value { return v.items }

func (v Value) Entries() []Entry { return v.entries }

// IsScalar reports whether v is neither a Sequence nor a Mapping.
func (v Value) IsScalar() bool {
	return v.kind != Sequence && v.kind != Mapping
}

// IsFlat reports whether v is a Sequence holding only scalars.
func (v Value) IsFlat() bool {
	if v.kind != Sequence {
		return false
	}
	for _, item := range v.items {
		if !item.IsScalar() {
			return false
		}
	}
	return true
}

// MarshalJSON encodes v, keeping Mapping entries in order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case Bool:
		buf.WriteString(strconv.FormatBool(v.boolean))
	case Number:
		buf.WriteString(v.text)
	case String:
		b, err := json.Marshal(v.text)
		if err != nil {
			return err
		}
		buf.Write(b)
	case Sequence:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Mapping:
		buf.WriteByte('{')
		for i, e := range v.entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(e.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := e.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		buf.WriteString("null")
	}
	return nil
}
