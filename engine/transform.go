package engine

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// transform replaces the current line with fn applied to it.
// It fails if the range is empty or fn rejects the line.
func (e *Engine) transform(fn func(string) (string, bool)) bool {
	line, ok := e.Line()
	if !ok {
		return false
	}

	s, ok := fn(line)
	if !ok {
		return false
	}

	return e.Replace(s)
}

// Upper converts the current line to upper case.
func (e *Engine) Upper() bool {
	return e.transform(func(s string) (string, bool) {
		return cases.Upper(language.Und).String(s), true
	})
}

// Lower converts the current line to lower case.
func (e *Engine) Lower() bool {
	return e.transform(func(s string) (string, bool) {
		return cases.Lower(language.Und).String(s), true
	})
}

// Trim removes leading and trailing spaces and control characters from the
// current line.
func (e *Engine) Trim() bool {
	return e.transform(func(s string) (string, bool) {
		return strings.TrimFunc(s, func(r rune) bool { return r <= ' ' }), true
	})
}

// Slice keeps the runes of the current line from offset from onward.
func (e *Engine) Slice(from int) bool {
	return e.transform(func(s string) (string, bool) {
		return substring(s, from, utf8.RuneCountInString(s))
	})
}

// SliceRange keeps the runes of the current line in [from, to).
func (e *Engine) SliceRange(from, to int) bool {
	return e.transform(func(s string) (string, bool) {
		return substring(s, from, to)
	})
}

func substring(s string, from, to int) (string, bool) {
	runes := []rune(s)
	if from < 0 || to > len(runes) || from > to {
		return "", false
	}

	return string(runes[from:to]), true
}

// Split divides the current line around matches of p and records the fields
// as the capture groups. The line itself is unchanged.
func (e *Engine) Split(p *Pattern) bool {
	line, ok := e.Line()
	if !ok {
		return false
	}

	e.groups = p.Split(line)

	return true
}

// Translate replaces each rune of the current line found in from with the
// rune at the same position in to. Both must hold the same number of runes.
func (e *Engine) Translate(from, to string) bool {
	src, dst := []rune(from), []rune(to)
	if len(src) == 0 || len(src) != len(dst) {
		return false
	}

	return e.transform(func(s string) (string, bool) {
		return strings.Map(func(r rune) rune {
			for i, c := range src {
				if c == r {
					return dst[i]
				}
			}

			return r
		}, s), true
	})
}

// ReplaceText replaces every occurrence of old in the current line with new.
func (e *Engine) ReplaceText(old, new string) bool {
	return e.transform(func(s string) (string, bool) {
		return strings.ReplaceAll(s, old, new), true
	})
}

// ReplaceAll replaces every match of p in the current line with repl.
func (e *Engine) ReplaceAll(p *Pattern, repl string) bool {
	return e.transform(func(s string) (string, bool) {
		return p.ReplaceAll(s, repl), true
	})
}

// ReplaceFirst replaces the first match of p in the current line with repl.
// It fails if the substitution leaves the line unchanged.
func (e *Engine) ReplaceFirst(p *Pattern, repl string) bool {
	return e.transform(func(s string) (string, bool) {
		r := p.ReplaceFirst(s, repl)

		return r, r != s
	})
}
