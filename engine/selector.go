package engine

import "strings"

// Selector decides whether a line qualifies for a scan.
//
// When a selector accepts a line it may return capture groups; the engine
// records non-nil groups as the result of the most recent match.
type Selector func(line string) (groups []string, ok bool)

// LineEquals selects lines equal to s.
func LineEquals(s string) Selector {
	return func(line string) ([]string, bool) { return nil, line == s }
}

// LineStartsWith selects lines beginning with prefix.
func LineStartsWith(prefix string) Selector {
	return func(line string) ([]string, bool) {
		return nil, strings.HasPrefix(line, prefix)
	}
}

// LineEndsWith selects lines ending with suffix.
func LineEndsWith(suffix string) Selector {
	return func(line string) ([]string, bool) {
		return nil, strings.HasSuffix(line, suffix)
	}
}

// LineContains selects lines containing substr.
func LineContains(substr string) Selector {
	return func(line string) ([]string, bool) {
		return nil, strings.Contains(line, substr)
	}
}

// LineEmpty selects zero-length lines.
func LineEmpty() Selector {
	return func(line string) ([]string, bool) { return nil, line == "" }
}

// LineMatches selects lines wholly matched by p and captures its groups.
func LineMatches(p *Pattern) Selector {
	return func(line string) ([]string, bool) {
		groups := p.Match(line)

		return groups, groups != nil
	}
}
