package repl

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr/builtin"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/mson/model"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "paths", "edit", "reload", "clear", "quit"}

// isWordBoundary reports whether r ends a completion word: whitespace, the
// member-access dot, and expression operators. Hyphens and colons are not
// boundaries, so model ids complete as one word.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']',
		'+', '*', '/', '%',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ';', '"', '\'':
		return true
	}

	return false
}

// wordBounds returns the word around cursor and its byte offsets. The word
// is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain before the word at wordStart.
// For "x + head.children.ea" and the word "ea" it is "head.children".
func parentPath(input string, wordStart int) string {
	prefix := strings.TrimRight(input[:wordStart], ".")

	pos := len(prefix)
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.TrimSpace(prefix[pos:])
}

// childCandidates returns the completions below parent in env. At the top
// level these are the variables and functions.
func childCandidates(env map[string]any, parent string) []string {
	if parent == "" {
		names := slices.Collect(maps.Keys(env))
		names = append(names, FunctionNames()...)

		return append(names, ExprLangBuiltinNames()...)
	}

	var cur any = env

	for seg := range strings.SplitSeq(parent, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}

		if cur, ok = m[seg]; !ok {
			return nil
		}
	}

	if m, ok := cur.(map[string]any); ok {
		return slices.Sorted(maps.Keys(m))
	}

	return nil
}

// computeMatches ranks the candidates for the word at the cursor. An empty
// top-level word has no matches so the hint stays visible; an empty word
// after a dot lists every member.
func (m shell) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	if m.mode == modeCtrl {
		if word == "" {
			return nil, nil, wordStart, wordEnd
		}

		candidates = ctrlCommands
	} else {
		parent := parentPath(input, wordStart)
		candidates = childCandidates(m.env, parent)

		if word == "" {
			if parent == "" || len(candidates) == 0 {
				return nil, nil, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, candidates, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar lays the matches out on one line, ellipsized to width.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += lipgloss.Width(sep)
		}

		if i > 0 && used+w+lipgloss.Width(ellipsis) > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate highlights the matched characters of a candidate.
// Functions get a "()" suffix.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, suggestionStyle.Bold(true)
	if selected {
		base, highlight = selectedStyle, selectedStyle.Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if isFunction(match.Str) {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}

// formatPreview summarizes a top-level node for the list command.
func formatPreview(n model.Node) string {
	switch n := n.(type) {
	case *model.Part:
		return fmt.Sprintf("part { %d children, %d cubes }", n.Children.Len(), len(n.Cubes))
	case *model.Model:
		return "model " + n.ID.String()
	case *model.Geometry:
		return fmt.Sprintf("geometry { %d quads }", len(n.Quads))
	}

	return "<unknown>"
}

func isFunction(name string) bool {
	if _, ok := functions[name]; ok {
		return true
	}

	_, ok := builtin.Index[name]

	return ok
}
