package repl

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/f-space/rmmz-plugins-sub000/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "type", "edit", "clear", "quit"}

// isWordRune reports whether r can appear in an identifier. Everything
// else, including the member-access dot, delimits words for completion.
func isWordRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordBounds returns the word at the cursor position and its byte
// boundaries within input. The word is empty when the cursor sits between
// two delimiters.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isWordRune(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isWordRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain leading up to the word that
// starts at wordStart. For input "x + server.http.po" and the word "po" it
// returns "server.http". It returns "" for a word that is not a member.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimSuffix(prefix, ".")
	pos := len(prefix)

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && !isWordRune(r) {
			break
		}

		pos -= size
	}

	return strings.Trim(prefix[pos:], ".")
}

// resolvePath follows a dotted path from the builtins and env, the same
// way the evaluator resolves member access on maps and namespaces.
func resolvePath(env map[string]any, path string) (any, bool) {
	segments := strings.Split(path, ".")

	v, ok := lang.LookupBuiltin(segments[0])
	if !ok {
		v, ok = env[segments[0]]
	}

	for _, seg := range segments[1:] {
		if !ok {
			break
		}

		v, ok = member(v, seg)
	}

	return v, ok
}

func member(v any, name string) (any, bool) {
	switch v := v.(type) {
	case map[string]any:
		m, ok := v[name]

		return m, ok

	case *lang.Namespace:
		return v.Member(name)
	}

	return nil, false
}

// childNames returns the member names of v in sorted order.
func childNames(v any) []string {
	switch v := v.(type) {
	case map[string]any:
		return slices.Sorted(maps.Keys(v))

	case *lang.Namespace:
		return v.Keys()
	}

	return nil
}

// childCandidates returns the completions below parent: the builtins and
// environment keys at the top level, or the members of the value parent
// names.
func childCandidates(env map[string]any, parent string) []string {
	if parent == "" {
		names := slices.Sorted(maps.Keys(env))

		return append(names, lang.BuiltinNames()...)
	}

	v, ok := resolvePath(env, parent)
	if !ok {
		return nil
	}

	return childNames(v)
}

// isFunction reports whether the dotted path names something callable.
func isFunction(env map[string]any, path string) bool {
	v, ok := resolvePath(env, path)
	if !ok {
		return false
	}

	if _, ok := v.(*lang.Builtin); ok {
		return true
	}

	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. It returns the matches (ranked best-first), the parent path of
// the word, and the word boundaries. An empty word yields no matches at the
// top level and every member after a dot.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	parent string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	var candidates []string

	if m.mode == modeCtrl {
		if word == "" {
			return nil, "", wordStart, wordEnd
		}

		candidates = ctrlCommands
		if fields := strings.Fields(input[:wordStart]); len(fields) > 0 {
			if fields[0] != "type" {
				return nil, "", wordStart, wordEnd
			}

			candidates = lang.Types()
		}
	} else {
		parent = parentPath(input, wordStart)
		candidates = childCandidates(m.env, parent)

		if word == "" {
			if parent == "" || len(candidates) == 0 {
				return nil, parent, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, parent, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, parent, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), parent, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// fit within the given terminal width. The selected candidate (when
// tabbing) uses the selected style and callable candidates get a "()"
// suffix.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
	callable func(string) bool,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx, callable(match.Str))

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		// The last candidate needs no room for the ellipsis.
		reserve := ellipsisWidth
		if i == len(matches)-1 {
			reserve = 0
		}

		if i > 0 && used+entryWidth+reserve > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected, callable bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if callable {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}

// previewWidth bounds the value previews of the list command.
const previewWidth = 40

// formatPreview renders a short preview of an environment value.
func formatPreview(v any) string {
	switch v := v.(type) {
	case map[string]any:
		return fmt.Sprintf("{ %d items }", len(v))

	case []any:
		return fmt.Sprintf("[ %d items ]", len(v))
	}

	s := lang.Describe(v)
	if len(s) > previewWidth {
		return s[:previewWidth-3] + "..."
	}

	return s
}
