package repl

import (
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// exprLangBuiltins defines signatures for expr-lang's builtin functions.
// Source: https://expr-lang.org/docs/language-definition
var exprLangBuiltins = map[string]struct {
	signature string
	params    []string
}{
	"len":    {"len(v)", []string{"v"}},
	"all":    {"all(array, predicate)", []string{"array", "predicate"}},
	"any":    {"any(array, predicate)", []string{"array", "predicate"}},
	"one":    {"one(array, predicate)", []string{"array", "predicate"}},
	"none":   {"none(array, predicate)", []string{"array", "predicate"}},
	"map":    {"map(array, mapper)", []string{"array", "mapper"}},
	"filter": {"filter(array, predicate)", []string{"array", "predicate"}},
	"find":   {"find(array, predicate)", []string{"array", "predicate"}},
	"findIndex": {
		"findIndex(array, predicate)",
		[]string{"array", "predicate"},
	},
	"findLast": {
		"findLast(array, predicate)",
		[]string{"array", "predicate"},
	},
	"findLastIndex": {
		"findLastIndex(array, predicate)",
		[]string{"array", "predicate"},
	},
	"groupBy": {"groupBy(array, mapper)", []string{"array", "mapper"}},
	"sortBy":  {"sortBy(array, mapper)", []string{"array", "mapper"}},
	"count":   {"count(array, predicate)", []string{"array", "predicate"}},
	"sum":     {"sum(array)", []string{"array"}},
	"mean":    {"mean(array)", []string{"array"}},
	"median":  {"median(array)", []string{"array"}},
	"min":     {"min(array)", []string{"array"}},
	"max":     {"max(array)", []string{"array"}},
	"join":    {"join(array, separator)", []string{"array", "separator"}},
	"split": {
		"split(string, separator)",
		[]string{"string", "separator"},
	},
	"replace": {
		"replace(string, old, new)",
		[]string{"string", "old", "new"},
	},
	"trim":      {"trim(string)", []string{"string"}},
	"trimLeft":  {"trimLeft(string)", []string{"string"}},
	"trimRight": {"trimRight(string)", []string{"string"}},
	"upper":     {"upper(string)", []string{"string"}},
	"lower":     {"lower(string)", []string{"string"}},
	"title":     {"title(string)", []string{"string"}},
	"int":       {"int(v)", []string{"v"}},
	"float":     {"float(v)", []string{"v"}},
	"string":    {"string(v)", []string{"v"}},
	"type":      {"type(v)", []string{"v"}},
}

// ExprLangBuiltinNames returns the names of the expr-lang builtins, sorted.
func ExprLangBuiltinNames() []string {
	return slices.Sorted(maps.Keys(exprLangBuiltins))
}

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type functionCall struct {
	name     string
	argIndex int
	inCall   bool
}

// detectFunctionCall reports the innermost call whose argument list holds
// the cursor, and which argument the cursor is in.
func detectFunctionCall(input string, cursor int) functionCall {
	input = input[:min(cursor, len(input))]

	open, depth := -1, 0

	for i := len(input) - 1; i >= 0 && open < 0; i-- {
		switch input[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return functionCall{}
	}

	start := open
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}

		start -= size
	}

	if start == open {
		return functionCall{}
	}

	call := functionCall{name: input[start:open], inCall: true}

	depth = 0

	for _, r := range input[open+1:] {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				call.argIndex++
			}
		}
	}

	return call
}

// getSignature returns the signature of a helper or expr-lang builtin, or
// "" if funcName is neither.
func getSignature(funcName string) (signature string, params []string) {
	if f, ok := functions[funcName]; ok {
		return f.signature, f.params
	}

	if b, ok := exprLangBuiltins[funcName]; ok {
		return b.signature, b.params
	}

	return "", nil
}

// renderSignatureHint renders signature with the parameter at argIdx
// highlighted. A variadic parameter stays highlighted past its index.
func renderSignatureHint(signature string, params []string, argIdx int) string {
	name, _, ok := strings.Cut(signature, "(")
	if !ok {
		return signatureStyle.Render(signature)
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		variadic := strings.HasPrefix(param, "...")
		if argIdx == i || (variadic && argIdx > i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
