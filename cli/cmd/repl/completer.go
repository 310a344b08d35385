package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/lotr/lang"
)

// ctrlCommands are the available control commands, entered with a leading
// colon.
//
//nolint:gochecknoglobals
var ctrlCommands = []string{"help", "ops", "reset", "undo", "write", "edit", "clear", "quit"}

// keywords are the control keywords of the script syntax.
//
//nolint:gochecknoglobals
var keywords = []string{"all", "any", "repeat"}

// tags are the literal tags of the script syntax.
//
//nolint:gochecknoglobals
var tags = []string{"!re", "!regex", "!fmt", "!template", "!text"}

// isWordBoundary returns true if the rune delimits a word for completion
// purposes. Hyphens are not boundaries because opcode names contain them
// (e.g., range-starts).
func isWordBoundary(r rune) bool {
	switch r {
	case ':', ',', '[', ']', '{', '}', '"', '\'':
		return true
	}

	return unicode.IsSpace(r)
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

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

// isControl reports whether input is a control command.
func isControl(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), ":")
}

// inValue reports whether the word starting at wordStart is in the value
// position of a mapping, i.e. follows a key's colon.
func inValue(input string, wordStart int) bool {
	prefix := strings.TrimRightFunc(input[:wordStart], unicode.IsSpace)
	if prefix == "" {
		return false
	}

	r, _ := utf8.DecodeLastRuneInString(prefix)

	return r == ':'
}

// candidates returns the names that complete word at wordStart.
func candidates(input, word string, wordStart int) []string {
	switch {
	case isControl(input):
		if strings.TrimSpace(input[:wordStart]) != ":" {
			return nil
		}

		return ctrlCommands

	case strings.HasPrefix(word, "!"):
		return tags

	case inValue(input, wordStart):
		return nil

	default:
		return append(lang.OpcodeNames(), keywords...)
	}
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. It returns the matches (ranked best-first), the candidate list,
// and the word boundaries.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	cands []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())
	if word == "" {
		return nil, nil, wordStart, wordEnd
	}

	cands = candidates(input, word, wordStart)
	if len(cands) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, cands), cands, wordStart, wordEnd
}

// activeOpcode returns the opcode whose arguments or name the cursor is in.
func activeOpcode(input string, cursor int) (lang.Opcode, bool) {
	cursor = min(max(cursor, 0), len(input))

	if word, _, _ := wordBounds(input, cursor); word != "" {
		if op, ok := lang.ParseOpcode(word); ok {
			return op, true
		}
	}

	prefix := input[:cursor]

	for {
		colon := strings.LastIndexByte(prefix, ':')
		if colon <= 0 {
			return 0, false
		}

		key := strings.TrimRightFunc(prefix[:colon], unicode.IsSpace)
		word, _, _ := wordBounds(key, len(key))

		if op, ok := lang.ParseOpcode(word); ok {
			return op, true
		}

		// Keywords open a nested block whose entries have their own keys.
		if word != "" {
			return 0, false
		}

		prefix = prefix[:colon]
	}
}

// renderUsageHint renders the name, argument shapes, and summary of op.
func renderUsageHint(op lang.Opcode) string {
	usage := op.Usage()
	if usage == "" {
		usage = "-"
	}

	return lipgloss.NewStyle().Bold(true).Render(op.String()) + " " +
		suggestionStyle.Render(usage) + "  " +
		hintStyle.Render(op.Summary())
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing) uses
// the selected style.
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

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
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

	return b.String()
}
