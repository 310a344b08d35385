package engine

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// Pattern is a compiled regular expression used by the engine.
//
// Line tests (match, selectors, rewrite) require the whole line to match the
// whole pattern. Substitution and splitting search for occurrences anywhere
// in the line. Both forms share the same capture group numbering.
type Pattern struct {
	source string
	whole  *regexp.Regexp
	find   *regexp.Regexp
}

// Compile parses source as RE2 syntax and returns a Pattern.
func Compile(source string) (*Pattern, error) {
	find, err := regexp.Compile(source)
	if err != nil {
		return nil, ErrPatternSyntax.Wrap(err).
			With(slog.String("pattern", source))
	}

	// The non-capturing group keeps alternations inside the anchors.
	whole, err := regexp.Compile(`\A(?:` + source + `)\z`)
	if err != nil {
		return nil, ErrPatternSyntax.Wrap(err).
			With(slog.String("pattern", source))
	}

	return &Pattern{source: source, whole: whole, find: find}, nil
}

// MustCompile is like [Compile] but panics if source cannot be parsed.
func MustCompile(source string) *Pattern {
	p, err := Compile(source)
	if err != nil {
		panic(err)
	}

	return p
}

// String returns the source text of the pattern.
func (p *Pattern) String() string { return p.source }

// NumGroups returns the number of capture groups, not counting group 0.
func (p *Pattern) NumGroups() int { return p.find.NumSubexp() }

// Match returns the capture groups of s if the whole of s matches p.
// Group 0 is the entire line. Groups that did not participate in the match
// are empty strings. Match returns nil if s does not match.
func (p *Pattern) Match(s string) []string {
	return p.whole.FindStringSubmatch(s)
}

// ReplaceAll replaces every match of p in s with repl, expanding $1 and
// ${name} references as [regexp.Regexp.Expand] does. A numbered reference
// ends at the first character that would not form an existing group, so
// "$1x" is group 1 followed by "x".
func (p *Pattern) ReplaceAll(s, repl string) string {
	return p.find.ReplaceAllString(s, p.template(repl))
}

// ReplaceFirst replaces the leftmost match of p in s with repl.
func (p *Pattern) ReplaceFirst(s, repl string) string {
	loc := p.find.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}

	out := make([]byte, 0, len(s)+len(repl))
	out = append(out, s[:loc[0]]...)
	out = p.find.ExpandString(out, p.template(repl), s, loc)
	out = append(out, s[loc[1]:]...)

	return string(out)
}

// template rewrites each numbered reference $N in repl as ${N}. Digits are
// taken while they name an existing group; the first digit always is.
func (p *Pattern) template(repl string) string {
	if !strings.Contains(repl, "$") {
		return repl
	}

	groups := p.NumGroups()

	var b strings.Builder

	for i := 0; i < len(repl); i++ {
		c := repl[i]
		if c != '$' || i+1 >= len(repl) {
			b.WriteByte(c)

			continue
		}

		next := repl[i+1]

		switch {
		case next == '$':
			b.WriteString("$$")
			i++

		case isDigit(next):
			n, j := int(next-'0'), i+2
			for j < len(repl) && isDigit(repl[j]) && n*10+int(repl[j]-'0') <= groups {
				n = n*10 + int(repl[j]-'0')
				j++
			}

			b.WriteString("${" + strconv.Itoa(n) + "}")
			i = j - 1

		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// Split slices s around the matches of p. Trailing empty fields are dropped,
// and s is returned as the only field if p does not occur in it.
func (p *Pattern) Split(s string) []string {
	if !p.find.MatchString(s) {
		return []string{s}
	}

	fields := p.find.Split(s, -1)
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}

	return fields
}
