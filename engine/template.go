package engine

import (
	"log/slog"
	"strconv"
	"strings"
)

// Template is a parsed format string with positional placeholders.
//
// The syntax is:
//
//	{N}    argument N (0-based); rendered verbatim as {N} if absent
//	''     a single quote
//	'...'  quoted text, copied literally (so '{' yields a brace)
//
// Anything else is copied literally. A closing brace outside a placeholder
// is ordinary text.
type Template struct {
	source string
	parts  []segment
}

// segment is either literal text (index < 0) or an argument reference.
type segment struct {
	text  string
	index int
}

// ParseTemplate parses source into a Template.
// It fails on an unmatched opening brace, a placeholder whose index is not a
// non-negative integer, or a placeholder with a format type ({0,number}).
func ParseTemplate(source string) (*Template, error) {
	var (
		parts  []segment
		lit    strings.Builder
		quoted bool
	)

	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, segment{text: lit.String(), index: -1})
			lit.Reset()
		}
	}

	for i := 0; i < len(source); i++ {
		c := source[i]

		switch {
		case c == '\'':
			if i+1 < len(source) && source[i+1] == '\'' {
				lit.WriteByte('\'')
				i++
			} else {
				quoted = !quoted
			}

		case quoted || c != '{':
			lit.WriteByte(c)

		default:
			end := strings.IndexByte(source[i+1:], '}')
			if end < 0 {
				return nil, ErrTemplateBrace.
					With(slog.String("template", source), slog.Int("offset", i))
			}

			spec := source[i+1 : i+1+end]
			if strings.Contains(spec, ",") {
				return nil, ErrTemplateFormatType.
					With(slog.String("template", source), slog.String("placeholder", spec))
			}

			n, err := strconv.Atoi(strings.TrimSpace(spec))
			if err != nil || n < 0 {
				return nil, ErrTemplateIndex.
					With(slog.String("template", source), slog.String("placeholder", spec))
			}

			flush()

			parts = append(parts, segment{index: n})
			i += end + 1
		}
	}

	flush()

	return &Template{source: source, parts: parts}, nil
}

// String returns the source text of the template.
func (t *Template) String() string { return t.source }

// Render substitutes args into the template.
func (t *Template) Render(args []string) string {
	var b strings.Builder

	for _, part := range t.parts {
		switch {
		case part.index < 0:
			b.WriteString(part.text)

		case part.index < len(args):
			b.WriteString(args[part.index])

		default:
			b.WriteByte('{')
			b.WriteString(strconv.Itoa(part.index))
			b.WriteByte('}')
		}
	}

	return b.String()
}

// Format parses source and renders it with the given arguments.
func Format(source string, args ...string) (string, error) {
	t, err := ParseTemplate(source)
	if err != nil {
		return "", err
	}

	return t.Render(args), nil
}
