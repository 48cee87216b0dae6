package elem

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"math"
	"reflect"
	"slices"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/mson/pkg"
)

// Sentinel errors.
var (
	ErrDecode      = pkg.NewError("malformed document")
	ErrUnsupported = pkg.NewError("unsupported value type")
)

// Decode reads one JSON document from r.
func Decode(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, ErrDecode.With(slog.String("format", "json")).Wrap(err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, ErrDecode.With(slog.String("format", "json")).
			Errorf("unexpected data after top-level value at offset %d", dec.InputOffset())
	}

	return v, nil
}

// Unmarshal parses a JSON document.
func Unmarshal(data []byte) (Value, error) {
	return Decode(bytes.NewReader(data))
}

// UnmarshalYAML parses a YAML document, keeping mapping order.
func UnmarshalYAML(data []byte) (Value, error) {
	var doc any

	err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap())
	if err != nil {
		return Value{}, ErrDecode.With(slog.String("format", "yaml")).Wrap(err)
	}

	return FromAny(doc)
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()

			for dec.More() {
				key, err := dec.Token()
				if err != nil {
					return Value{}, err
				}

				name, ok := key.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key %v is not a string", key)
				}

				v, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}

				obj.Set(name, v)
			}

			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}

			return ObjectOf(obj), nil

		case '[':
			arr := []Value{}

			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}

				arr = append(arr, v)
			}

			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}

			return Array(arr...), nil
		}

		return Value{}, fmt.Errorf("unexpected delimiter %q", t)

	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return Value{}, err
		}

		return Number(n), nil

	case string:
		return String(t), nil

	case bool:
		return Bool(t), nil

	case nil:
		return Null(), nil
	}

	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

// FromAny converts a decoded Go value into a [Value]. Ordered YAML mappings
// keep their order; plain maps are ordered by key.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil

	case Value:
		return t, nil

	case bool:
		return Bool(t), nil

	case string:
		return String(t), nil

	case float64:
		return Number(t), nil

	case float32:
		return Number(float64(t)), nil

	case int:
		return Number(float64(t)), nil

	case int64:
		return Number(float64(t)), nil

	case uint64:
		return Number(float64(t)), nil

	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return Value{}, ErrDecode.Wrap(err)
		}

		return Number(n), nil

	case yaml.MapSlice:
		obj := NewObject()

		for _, item := range t {
			v, err := FromAny(item.Value)
			if err != nil {
				return Value{}, err
			}

			obj.Set(keyString(item.Key), v)
		}

		return ObjectOf(obj), nil

	case map[string]any:
		obj := NewObject()

		for _, key := range slices.Sorted(maps.Keys(t)) {
			v, err := FromAny(t[key])
			if err != nil {
				return Value{}, err
			}

			obj.Set(key, v)
		}

		return ObjectOf(obj), nil

	case []any:
		arr := make([]Value, 0, len(t))

		for _, e := range t {
			v, err := FromAny(e)
			if err != nil {
				return Value{}, err
			}

			arr = append(arr, v)
		}

		return Array(arr...), nil
	}

	// Remaining integer widths and named numeric types.
	rv := reflect.ValueOf(x)

	switch {
	case rv.CanInt():
		return Number(float64(rv.Int())), nil
	case rv.CanUint():
		return Number(float64(rv.Uint())), nil
	case rv.CanFloat():
		return Number(rv.Float()), nil
	}

	return Value{}, ErrUnsupported.With(slog.String("type", fmt.Sprintf("%T", x)))
}

func keyString(k any) string {
	switch t := k.(type) {
	case string:
		return t
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}

		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// Any converts v into plain Go values: objects become map[string]any,
// arrays []any, numbers float64.
func (v Value) Any() any {
	switch v.kind {
	case KindBool:
		return v.flag
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Any()
		}

		return out
	case KindObject:
		out := make(map[string]any, v.obj.Len())
		for key, e := range v.obj.All() {
			out[key] = e.Any()
		}

		return out
	default:
		return nil
	}
}
