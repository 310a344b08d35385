package lang

import (
	"math"
	"strconv"

	"github.com/ardnew/lotr/engine"
)

// LiteralKind identifies the type of a [Literal].
type LiteralKind uint8

const (
	KindText     LiteralKind = iota // text
	KindRegex                       // regex
	KindTemplate                    // template
	KindInteger                     // integer
	KindFloat                       // float
)

// String returns the name of the kind.
func (k LiteralKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindRegex:
		return "regex"
	case KindTemplate:
		return "template"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Literal is an immutable typed constant passed to an operation.
// Exactly one payload is meaningful, selected by Kind.
type Literal struct {
	Kind    LiteralKind
	text    string // text, template source, or regex source
	pattern *engine.Pattern
	integer int
	float   float64
}

// Text returns a text literal.
func Text(s string) Literal { return Literal{Kind: KindText, text: s} }

// Regex returns a regex literal for the compiled pattern p.
func Regex(p *engine.Pattern) Literal {
	return Literal{Kind: KindRegex, text: p.String(), pattern: p}
}

// Template returns a template literal. The source is parsed when rendered.
func Template(source string) Literal {
	return Literal{Kind: KindTemplate, text: source}
}

// Integer returns an integer literal.
func Integer(n int) Literal { return Literal{Kind: KindInteger, integer: n} }

// Float returns a floating-point literal.
func Float(f float64) Literal { return Literal{Kind: KindFloat, float: f} }

// Value returns the source text of a text, regex, or template literal, or
// the decimal form of a number.
func (l Literal) Value() string {
	switch l.Kind {
	case KindInteger:
		return strconv.Itoa(l.integer)
	case KindFloat:
		return formatFloat(l.float)
	default:
		return l.text
	}
}

// Pattern returns the compiled pattern of a regex literal, or nil.
func (l Literal) Pattern() *engine.Pattern { return l.pattern }

// Int returns the value of an integer literal.
func (l Literal) Int() int { return l.integer }

// Float returns the value of a float literal.
func (l Literal) Float() float64 { return l.float }

// Equal reports whether l and o have the same kind and value.
func (l Literal) Equal(o Literal) bool {
	return l.Kind == o.Kind && l.Value() == o.Value()
}

// String returns l as it would appear in a script argument list.
func (l Literal) String() string {
	switch l.Kind {
	case KindRegex:
		return "!re " + strconv.Quote(l.text)
	case KindTemplate:
		return "!fmt " + strconv.Quote(l.text)
	case KindInteger, KindFloat:
		return l.Value()
	default:
		return strconv.Quote(l.text)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}

	s := strconv.FormatFloat(f, 'g', -1, 64)
	for _, c := range s {
		if c == '.' || c == 'e' {
			return s
		}
	}

	return s + ".0"
}
