package local

import (
	"log/slog"

	"github.com/ardnew/mson/elem"
)

// Vector is a fixed-length list of expressions.
type Vector []Expr

// Zeros returns a vector of n zeros.
func Zeros(n int) Vector {
	v := make(Vector, n)
	for i := range v {
		v[i] = Zero
	}

	return v
}

// ParseVector reads an n-element vector from member of obj.
//
// A missing member yields zeros, a scalar fills every element, and an array
// fills elements in order with the remainder zero. Array elements must be
// primitives.
func ParseVector(obj *elem.Object, member string, n int) (Vector, error) {
	v := Zeros(n)

	value, ok := obj.Member(member)
	if !ok {
		return v, nil
	}

	arr, ok := value.AsArray()
	if !ok {
		expr, err := Primitive(value)
		if err != nil {
			return nil, ErrMalformedExpression.With(slog.String("member", member)).Wrap(err)
		}

		for i := range v {
			v[i] = expr
		}

		return v, nil
	}

	for i := 0; i < n && i < len(arr); i++ {
		if !arr[i].IsPrimitive() {
			return nil, ErrMalformedExpression.
				With(slog.String("member", member)).
				Errorf("non-primitive type found in array, can only be values (number) or variable references (#variable): %s", value)
		}

		expr, err := Primitive(arr[i])
		if err != nil {
			return nil, ErrMalformedExpression.With(slog.String("member", member)).Wrap(err)
		}

		v[i] = expr
	}

	return v, nil
}

// Eval evaluates every element against s.
func (v Vector) Eval(s Scope) ([]float64, error) {
	out := make([]float64, len(v))

	for i, e := range v {
		f, err := e.Eval(s)
		if err != nil {
			return nil, err
		}

		out[i] = f
	}

	return out, nil
}
