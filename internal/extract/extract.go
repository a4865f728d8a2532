// Package extract evaluates JSONPath extraction expressions against fetched
// payloads.
package extract

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/ohler55/ojg/jp"

	"github.com/agentic-research/restcli/internal/value"
)

// Expr is a compiled JSONPath expression.
type Expr struct {
	src string
	x   jp.Expr
}

// Compile parses a JSONPath expression.
func Compile(src string) (*Expr, error) {
	x, err := jp.ParseString(src)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", src, err)
	}
	return &Expr{src: src, x: x}, nil
}

func (e *Expr) String() string { return e.src }

// Select returns the sub-values of v matched by the expression, in match
// order. Matched mappings keep their original entry order.
func (e *Expr) Select(v value.Value) []value.Value {
	b := &binder{
		mappings:  make(map[uintptr]value.Value),
		sequences: make(map[uintptr]value.Value),
	}
	results := e.x.Get(b.generic(v))

	matches := make([]value.Value, 0, len(results))
	for _, r := range results {
		matches = append(matches, b.restore(r))
	}
	return matches
}

// binder converts a Value into the generic form jp evaluates and remembers
// which generic map or slice came from which original. jp returns matched
// containers by reference, so a match can be traced back to its ordered,
// literal-preserving original.
type binder struct {
	mappings  map[uintptr]value.Value
	sequences map[uintptr]value.Value
}

// literal is a number whose text int64 and float64 cannot reproduce,
// such as 1.50 or integers beyond int64. jp passes it through untouched.
type literal string

func number(text string) any {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil && strconv.FormatInt(i, 10) == text {
		return i
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil && strconv.FormatFloat(f, 'g', -1, 64) == text {
		return f
	}
	return literal(text)
}

func (b *binder) generic(v value.Value) any {
	switch v.Kind() {
	case value.Bool:
		out, _ := v.Bool()
		return out
	case value.Number:
		return number(v.Text())
	case value.String:
		return v.Text()
	case value.Sequence:
		out := make([]any, len(v.Items()))
		for i, item := range v.Items() {
			out[i] = b.generic(item)
		}
		if len(out) > 0 {
			b.sequences[reflect.ValueOf(out).Pointer()] = v
		}
		return out
	case value.Mapping:
		out := make(map[string]any, len(v.Entries()))
		for _, e := range v.Entries() {
			out[e.Key] = b.generic(e.Value)
		}
		b.mappings[reflect.ValueOf(out).Pointer()] = v
		return out
	default:
		return nil
	}
}

func (b *binder) restore(r any) value.Value {
	switch t := r.(type) {
	case nil:
		return value.NewNull()
	case bool:
		return value.NewBool(t)
	case int64:
		return value.NewNumber(strconv.FormatInt(t, 10))
	case float64:
		return value.NewNumber(strconv.FormatFloat(t, 'g', -1, 64))
	case literal:
		return value.NewNumber(string(t))
	case string:
		return value.NewString(t)
	case []any:
		if v, ok := b.sequences[reflect.ValueOf(t).Pointer()]; ok && len(t) == len(v.Items()) {
			return v
		}
		items := make([]value.Value, len(t))
		for i, item := range t {
			items[i] = b.restore(item)
		}
		return value.NewSequence(items...)
	case map[string]any:
		if v, ok := b.mappings[reflect.ValueOf(t).Pointer()]; ok {
			return v
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries := make([]value.Entry, len(keys))
		for i, k := range keys {
			entries[i] = value.Entry{Key: k, Value: b.restore(t[k])}
		}
		return value.NewMapping(entries...)
	default:
		return value.NewString(fmt.Sprint(t))
	}
}
