// Package local implements the arithmetic expressions used to declare model
// variables ("locals") and to size and place model components.
//
// An expression is one of:
//
//	3.5                 a constant
//	"#name"             a reference to the variable name
//	"anything else"     zero
//	[left, op, right]   a binary operation, op one of + - * / % ^
//
// Expressions are lazy: they are parsed once and evaluated against a [Scope]
// every time a model is built.
package local

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/mson/elem"
	"github.com/ardnew/mson/pkg"
)

// ErrMalformedExpression is returned for expressions that cannot be parsed.
var ErrMalformedExpression = pkg.NewError("malformed expression")

// RefPrefix marks a string expression as a variable reference.
const RefPrefix = "#"

// Scope resolves variables by name.
type Scope interface {
	Local(name string) (float64, error)
}

// Expr is a lazily evaluated number.
type Expr interface {
	Eval(s Scope) (float64, error)
	String() string
}

// Zero is the constant 0.
var Zero Expr = Constant(0)

// Constant is a literal number.
type Constant float64

// Eval returns c.
func (c Constant) Eval(Scope) (float64, error) { return float64(c), nil }

func (c Constant) String() string { return strconv.FormatFloat(float64(c), 'g', -1, 64) }

// Ref refers to a variable by name.
type Ref string

// Eval looks the variable up in s.
func (r Ref) Eval(s Scope) (float64, error) { return s.Local(string(r)) }

func (r Ref) String() string { return RefPrefix + string(r) }

// Operator is a binary arithmetic operator.
type Operator byte

// Supported operators.
const (
	Add Operator = '+'
	Sub Operator = '-'
	Mul Operator = '*'
	Div Operator = '/'
	Mod Operator = '%'
	Pow Operator = '^'
)

var operators = []Operator{Add, Sub, Mul, Div, Mod, Pow}

// ParseOperator returns the operator spelled s.
func ParseOperator(s string) (Operator, error) {
	if len(s) == 1 {
		for _, op := range operators {
			if byte(op) == s[0] {
				return op, nil
			}
		}
	}

	expected := make([]string, len(operators))
	for i, op := range operators {
		expected[i] = op.String()
	}

	return 0, ErrMalformedExpression.
		With(slog.String("operator", s)).
		Errorf("invalid operation '%s', expected one of %s", s, strings.Join(expected, ", "))
}

// operands is the environment an operator program runs in.
type operands struct {
	L, R float64
}

// programs holds one compiled program per operator. The operands are
// evaluated in Go first, so a program only ever sees two numbers.
var programs = compileOperators()

func compileOperators() map[Operator]*vm.Program {
	src := map[Operator]string{
		Add: "L + R",
		Sub: "L - R",
		Mul: "L * R",
		Div: "L / R",
		Mod: "mod(L, R)",
		Pow: "L ** R",
	}

	// The % of expr is integer only; mod keeps the sign of the dividend
	// and accepts fractions, like JavaScript.
	mod := expr.Function("mod", func(args ...any) (any, error) {
		return math.Mod(args[0].(float64), args[1].(float64)), nil
	}, new(func(float64, float64) float64))

	out := make(map[Operator]*vm.Program, len(src))

	for op, code := range src {
		out[op] = expr.MustCompile(code, expr.Env(operands{}), mod, expr.AsFloat64())
	}

	return out
}

// Apply evaluates a op b. Division and modulo follow IEEE 754.
func (op Operator) Apply(a, b float64) (float64, error) {
	program, ok := programs[op]
	if !ok {
		return math.NaN(), ErrMalformedExpression.
			With(slog.String("operator", op.String())).
			Errorf("invalid operation '%s'", op)
	}

	out, err := expr.Run(program, operands{L: a, R: b})
	if err != nil {
		return math.NaN(), ErrMalformedExpression.With(slog.String("operator", op.String())).Wrap(err)
	}

	return out.(float64), nil
}

func (op Operator) String() string { return string(rune(op)) }

// BinaryOp applies an operator to two sub-expressions.
type BinaryOp struct {
	Left, Right Expr
	Op          Operator
}

// Eval evaluates both operands left to right, then applies the operator.
func (b *BinaryOp) Eval(s Scope) (float64, error) {
	l, err := b.Left.Eval(s)
	if err != nil {
		return 0, err
	}

	r, err := b.Right.Eval(s)
	if err != nil {
		return 0, err
	}

	return b.Op.Apply(l, r)
}

func (b *BinaryOp) String() string {
	return fmt.Sprintf("[%s, %q, %s]", b.Left, b.Op.String(), b.Right)
}

// Fold returns an expression equivalent to op(left, right), evaluated now
// when both operands are constants.
func Fold(left Expr, op Operator, right Expr) Expr {
	l, lok := left.(Constant)
	r, rok := right.(Constant)

	if lok && rok {
		if v, err := op.Apply(float64(l), float64(r)); err == nil {
			return Constant(v)
		}
	}

	return &BinaryOp{Left: left, Right: right, Op: op}
}

// Parse converts a document value into an expression.
func Parse(v elem.Value) (Expr, error) {
	arr, ok := v.AsArray()
	if !ok {
		if v.IsPrimitive() {
			return Primitive(v)
		}

		return nil, ErrMalformedExpression.
			With(slog.String("kind", v.Kind().String())).
			Errorf("unsupported local type, a local must be either a value (number), string (#variable), or an array")
	}

	if len(arr) != 3 {
		return nil, ErrMalformedExpression.
			With(slog.Int("members", len(arr))).
			Errorf("saw a local of %d members, expected 3 of (left, op, right)", len(arr))
	}

	sym, _ := arr[1].AsString()
	if !arr[1].IsPrimitive() {
		sym = arr[1].String()
	}

	op, err := ParseOperator(sym)
	if err != nil {
		return nil, err
	}

	left, err := Parse(arr[0])
	if err != nil {
		return nil, err
	}

	right, err := Parse(arr[2])
	if err != nil {
		return nil, err
	}

	return Fold(left, op, right), nil
}

// Primitive converts a number or string into an expression. Arrays are not
// accepted.
func Primitive(v elem.Value) (Expr, error) {
	if n, ok := v.AsNumber(); ok {
		return Constant(n), nil
	}

	if s, ok := v.AsString(); ok {
		if name, ok := strings.CutPrefix(s, RefPrefix); ok {
			return Ref(name), nil
		}

		return Zero, nil
	}

	return nil, ErrMalformedExpression.
		With(slog.String("value", v.String())).
		Errorf("unsupported local value type: %s", v)
}
