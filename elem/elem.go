// Package elem provides the ordered document model shared by every
// description file reader.
//
// Model descriptions are JSON (or YAML) trees whose object member order is
// significant: components export and register in the order they are written.
// [Value] and [Object] preserve that order.
package elem

import (
	"iter"
	"strconv"
	"strings"
)

// Kind identifies the type held by a [Value].
type Kind uint8

// Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is an immutable document value. The zero Value is null.
type Value struct {
	obj  *Object
	str  string
	arr  []Value
	num  float64
	kind Kind
	flag bool
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Array returns an array value holding vs.
func Array(vs ...Value) Value {
	if vs == nil {
		vs = []Value{}
	}

	return Value{kind: KindArray, arr: vs}
}

// ObjectOf returns an object value. A nil o is an empty object.
func ObjectOf(o *Object) Value {
	if o == nil {
		o = NewObject()
	}

	return Value{kind: KindObject, obj: o}
}

// Kind returns the type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsPrimitive reports whether v is a bool, number, or string.
func (v Value) IsPrimitive() bool {
	return v.kind == KindBool || v.kind == KindNumber || v.kind == KindString
}

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.flag, v.kind == KindBool }

// AsNumber returns the number held by v.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsArray returns the elements held by v.
func (v Value) AsArray() ([]Value, bool) { return v.arr, v.kind == KindArray }

// AsObject returns the object held by v.
func (v Value) AsObject() (*Object, bool) { return v.obj, v.kind == KindObject }

// Len returns the number of elements of an array or members of an object.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return v.obj.Len()
	default:
		return 0
	}
}

// String renders v as compact JSON.
func (v Value) String() string {
	var sb strings.Builder

	v.write(&sb)

	return sb.String()
}

func (v Value) write(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")

	case KindBool:
		sb.WriteString(strconv.FormatBool(v.flag))

	case KindNumber:
		sb.WriteString(strconv.FormatFloat(v.num, 'g', -1, 64))

	case KindString:
		sb.WriteString(strconv.Quote(v.str))

	case KindArray:
		sb.WriteByte('[')

		for i, e := range v.arr {
			if i > 0 {
				sb.WriteByte(',')
			}

			e.write(sb)
		}

		sb.WriteByte(']')

	case KindObject:
		sb.WriteByte('{')

		for i, key := range v.obj.keys {
			if i > 0 {
				sb.WriteByte(',')
			}

			sb.WriteString(strconv.Quote(key))
			sb.WriteByte(':')
			v.obj.vals[key].write(sb)
		}

		sb.WriteByte('}')
	}
}

// MarshalJSON implements json.Marshaler, preserving member order.
func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(v.String()), nil
}

// Object is an insertion-ordered set of named values.
type Object struct {
	vals map[string]Value
	keys []string
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{vals: map[string]Value{}}
}

// Set stores v under key. Replacing a member keeps its original position.
func (o *Object) Set(key string, v Value) *Object {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}

	o.vals[key] = v

	return o
}

// Get returns the member stored under key, including null members.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}

	v, ok := o.vals[key]

	return v, ok
}

// Member returns the member stored under key. Null members are reported as
// absent.
func (o *Object) Member(key string) (Value, bool) {
	v, ok := o.Get(key)
	if !ok || v.IsNull() {
		return Value{}, false
	}

	return v, true
}

// Has reports whether key holds a non-null member.
func (o *Object) Has(key string) bool {
	_, ok := o.Member(key)

	return ok
}

// Len returns the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}

	return len(o.keys)
}

// Keys returns the member names in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}

	return append([]string(nil), o.keys...)
}

// All iterates the members in insertion order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if o == nil {
			return
		}

		for _, key := range o.keys {
			if !yield(key, o.vals[key]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy of o.
func (o *Object) Clone() *Object {
	c := NewObject()

	for key, v := range o.All() {
		c.Set(key, v)
	}

	return c
}
