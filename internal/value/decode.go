package value

import (
	"fmt"

	"github.com/buger/jsonparser"
)

// Decode parses a JSON document into a Value, preserving object key order.
func Decode(data []byte) (Value, error) {
	raw, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return Value{}, fmt.Errorf("decode json: %w", err)
	}
	return decode(raw, typ)
}

func decode(raw []byte, typ jsonparser.ValueType) (Value, error) {
	switch typ {
	case jsonparser.Null:
		return NewNull(), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return Value{}, fmt.Errorf("decode bool: %w", err)
		}
		return NewBool(b), nil
	case jsonparser.Number:
		return NewNumber(string(raw)), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return Value{}, fmt.Errorf("decode string: %w", err)
		}
		return NewString(s), nil
	case jsonparser.Array:
		return decodeArray(raw)
	case jsonparser.Object:
		return decodeObject(raw)
	default:
		return Value{}, fmt.Errorf("decode json: unexpected token %q", raw)
	}
}

func decodeArray(raw []byte) (Value, error) {
	items := []Value{}
	var inner error
	_, err := jsonparser.ArrayEach(raw, func(item []byte, typ jsonparser.ValueType, _ int, err error) {
		if inner != nil {
			return
		}
		if err != nil {
			inner = err
			return
		}
		v, err := decode(item, typ)
		if err != nil {
			inner = err
			return
		}
		items = append(items, v)
	})
	if inner != nil {
		return Value{}, inner
	}
	if err != nil {
		return Value{}, fmt.Errorf("decode array: %w", err)
	}
	return NewSequence(items...), nil
}

func decodeObject(raw []byte) (Value, error) {
	entries := []Entry{}
	err := jsonparser.ObjectEach(raw, func(key, item []byte, typ jsonparser.ValueType, _ int) error {
		v, err := decode(item, typ)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{Key: string(key), Value: v})
		return nil
	})
	if err != nil {
		return Value{}, fmt.Errorf("decode object: %w", err)
	}
	return NewMapping(entries...), nil
}
