package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// DefaultIndent is the indentation used for nested blocks when none is given.
const DefaultIndent = 2

// Format writes c to w in script syntax. Nested blocks are indented by
// indent spaces; an indent of zero or less writes the whole script on one
// line in flow style.
func (c *Command) Format(_ context.Context, w io.Writer, indent int) error {
	var lines []string

	switch {
	case indent <= 0:
		lines = []string{c.flow()}

	case c.Kind == KindSequence && len(c.Children) > 0:
		lines = items(c.Children, max(indent, DefaultIndent))

	default:
		lines = c.block(max(indent, DefaultIndent))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes the command tree as JSON to the writer.
func (c *Command) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(c.ToMap(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(c.ToMap())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// ToMap converts the command tree to maps and slices of plain values.
func (c *Command) ToMap() map[string]any {
	if c.Kind == KindOperation {
		args := make([]map[string]any, len(c.Args))
		for i, arg := range c.Args {
			args[i] = map[string]any{"kind": arg.Kind.String(), "value": arg.jsonValue()}
		}

		return map[string]any{"op": c.Op.String(), "args": args}
	}

	children := make([]map[string]any, len(c.Children))
	for i, child := range c.Children {
		children[i] = child.ToMap()
	}

	return map[string]any{c.Kind.String(): children}
}

func (l Literal) jsonValue() any {
	switch l.Kind {
	case KindInteger:
		return l.integer
	case KindFloat:
		return l.Value()
	default:
		return l.text
	}
}

// block renders c as block-style lines. Lines after the first are indented
// relative to the first.
func (c *Command) block(indent int) []string {
	switch c.Kind {
	case KindOperation:
		return []string{c.operation()}

	case KindSequence, KindDisjunction:
		if len(c.Children) == 0 {
			return []string{c.Kind.String() + ": []"}
		}

		return append([]string{c.Kind.String() + ":"}, nest(items(c.Children, indent), indent)...)

	case KindRepeat:
		body := c.Body()

		switch {
		case body == nil:
			return []string{keywordRepeat + ": []"}

		case body.Kind == KindOperation && len(body.Args) == 0:
			return []string{keywordRepeat + ": " + body.Op.String()}

		case body.Kind == KindSequence && len(body.Children) > 0:
			return append([]string{keywordRepeat + ":"}, nest(items(body.Children, indent), indent)...)

		default:
			return append([]string{keywordRepeat + ":"}, nest(body.block(indent), indent)...)
		}
	}

	return nil
}

// operation renders an operation on a single line.
func (c *Command) operation() string {
	name := c.Op.String()

	switch len(c.Args) {
	case 0:
		return name
	case 1:
		return name + ": " + c.Args[0].scalar(false)
	default:
		return name + ": " + flowArgs(c.Args)
	}
}

// items renders cmds as the entries of a block list.
func items(cmds []*Command, indent int) []string {
	var lines []string

	marker := "-" + strings.Repeat(" ", indent-1)

	for _, c := range cmds {
		for i, line := range c.block(indent) {
			if i == 0 {
				lines = append(lines, marker+line)
			} else {
				lines = append(lines, strings.Repeat(" ", indent)+line)
			}
		}
	}

	return lines
}

func nest(lines []string, indent int) []string {
	pad := strings.Repeat(" ", indent)
	for i := range lines {
		lines[i] = pad + lines[i]
	}

	return lines
}

// flow renders c on a single line in flow style.
func (c *Command) flow() string {
	switch c.Kind {
	case KindOperation:
		switch len(c.Args) {
		case 0:
			return c.Op.String()
		case 1:
			return "{" + c.Op.String() + ": " + c.Args[0].scalar(true) + "}"
		default:
			return "{" + c.Op.String() + ": " + flowArgs(c.Args) + "}"
		}

	case KindRepeat:
		body := c.Body()
		if body == nil {
			return "{" + keywordRepeat + ": []}"
		}

		return "{" + keywordRepeat + ": " + body.flow() + "}"

	default:
		parts := make([]string, len(c.Children))
		for i, child := range c.Children {
			parts[i] = child.flow()
		}

		list := "[" + strings.Join(parts, ", ") + "]"
		if c.Kind == KindSequence {
			return list
		}

		return "{" + c.Kind.String() + ": " + list + "}"
	}
}

func flowArgs(args []Literal) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.scalar(true)
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// scalar renders l as a YAML scalar, tagged when its kind requires it.
func (l Literal) scalar(flow bool) string {
	switch l.Kind {
	case KindRegex:
		return tagRegex + " " + quote(l.text, flow)
	case KindTemplate:
		return tagFmt + " " + quote(l.text, flow)
	case KindInteger, KindFloat:
		return l.Value()
	default:
		return quote(l.text, flow)
	}
}

// quote renders s as a YAML string scalar that decodes back to s.
func quote(s string, flow bool) string {
	data, err := yaml.Marshal(s)
	out := strings.TrimSuffix(string(data), "\n")

	if err != nil || out == "" || strings.ContainsRune(out, '\n') {
		return strconv.Quote(s)
	}

	if flow && out[0] != '"' && out[0] != '\'' && strings.ContainsAny(out, ",[]{}:#") {
		return strconv.Quote(s)
	}

	return out
}
