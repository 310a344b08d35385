package lang

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/lotr/engine"
)

// CommandKind identifies the variant of a [Command].
type CommandKind uint8

const (
	KindOperation   CommandKind = iota // operation
	KindSequence                       // all
	KindDisjunction                    // any
	KindRepeat                         // repeat
)

// String returns the script keyword for the kind.
func (k CommandKind) String() string {
	switch k {
	case KindOperation:
		return "operation"
	case KindSequence:
		return "all"
	case KindDisjunction:
		return "any"
	case KindRepeat:
		return "repeat"
	default:
		return "unknown"
	}
}

// Command is a node of an executable command tree.
//
// An operation node carries an opcode and its arguments. A sequence or
// disjunction carries its children in evaluation order. A repeat node
// carries its body as its only child.
type Command struct {
	Kind     CommandKind
	Op       Opcode
	Args     []Literal
	Children []*Command
}

// Operation returns a command that applies op with args.
func Operation(op Opcode, args ...Literal) *Command {
	return &Command{Kind: KindOperation, Op: op, Args: args}
}

// Sequence returns a command that runs children in order until one fails.
func Sequence(children ...*Command) *Command {
	return &Command{Kind: KindSequence, Children: children}
}

// Disjunction returns a command that runs children in order until one passes.
func Disjunction(children ...*Command) *Command {
	return &Command{Kind: KindDisjunction, Children: children}
}

// Repeat returns a command that runs body until it fails.
func Repeat(body *Command) *Command {
	return &Command{Kind: KindRepeat, Children: []*Command{body}}
}

// Body returns the body of a repeat command, or nil for other kinds.
func (c *Command) Body() *Command {
	if c.Kind != KindRepeat || len(c.Children) == 0 {
		return nil
	}

	return c.Children[0]
}

// Equal reports whether c and o describe the same tree.
func (c *Command) Equal(o *Command) bool {
	if c == nil || o == nil {
		return c == o
	}

	if c.Kind != o.Kind || c.Op != o.Op ||
		len(c.Args) != len(o.Args) || len(c.Children) != len(o.Children) {
		return false
	}

	for i := range c.Args {
		if !c.Args[i].Equal(o.Args[i]) {
			return false
		}
	}

	for i := range c.Children {
		if !c.Children[i].Equal(o.Children[i]) {
			return false
		}
	}

	return true
}

// String returns a compact single-line rendering, used in diagnostics.
func (c *Command) String() string {
	var b strings.Builder

	c.writeCompact(&b)

	return b.String()
}

func (c *Command) writeCompact(b *strings.Builder) {
	if c.Kind == KindOperation {
		b.WriteString(c.Op.String())

		if len(c.Args) > 0 {
			b.WriteByte('(')

			for i, arg := range c.Args {
				if i > 0 {
					b.WriteString(", ")
				}

				b.WriteString(arg.String())
			}

			b.WriteByte(')')
		}

		return
	}

	b.WriteString(c.Kind.String())
	b.WriteByte('[')

	for i, child := range c.Children {
		if i > 0 {
			b.WriteString("; ")
		}

		child.writeCompact(b)
	}

	b.WriteByte(']')
}

// Execute evaluates c against e.
//
// An [Aborted] result from any node ends the evaluation of every enclosing
// node. A repeat stops with [Aborted] if ctx is done before an iteration.
func (c *Command) Execute(
	ctx context.Context,
	d Dispatcher,
	e *engine.Engine,
) Result {
	switch c.Kind {
	case KindOperation:
		return d.Dispatch(ctx, e, c.Op, c.Args...)

	case KindSequence:
		for _, child := range c.Children {
			if r := child.Execute(ctx, d, e); r != Passed {
				return r
			}
		}

		return Passed

	case KindDisjunction:
		for _, child := range c.Children {
			if r := child.Execute(ctx, d, e); r != Failed {
				return r
			}
		}

		return Failed

	case KindRepeat:
		body := c.Body()
		if body == nil {
			return Passed
		}

		for {
			if err := ctx.Err(); err != nil {
				d.logger.WarnContext(ctx, "repeat interrupted",
					slog.String("cause", context.Cause(ctx).Error()),
					slog.Int("cursor", e.Cursor()),
					slog.Int("range_end", e.RangeEnd()),
				)

				return Aborted
			}

			switch body.Execute(ctx, d, e) {
			case Failed:
				return Passed
			case Aborted:
				return Aborted
			}
		}

	default:
		return Failed
	}
}
