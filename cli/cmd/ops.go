package cmd

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/lotr/lang"
)

// Ops lists the opcodes with their accepted arguments.
type Ops struct {
	Pattern string `arg:"" help:"Show only opcodes fuzzy-matching pattern" name:"pattern" optional:""`
}

// Run executes the ops command.
func (o *Ops) Run(ctx context.Context) error {
	w := streamsFrom(ctx).Out

	ops := o.selected()
	if len(ops) == 0 {
		_, err := fmt.Fprintf(w, "no opcode matches %q\n", o.Pattern)

		return err
	}

	r := lipgloss.NewRenderer(w)
	name := r.NewStyle().Bold(true).PaddingRight(2)
	usage := r.NewStyle().Foreground(lipgloss.Color("6")).PaddingRight(2)
	header := r.NewStyle().Foreground(lipgloss.Color("8")).PaddingRight(2)

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(false).
		Headers("OPCODE", "ARGUMENTS", "DESCRIPTION").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == 0:
				return name
			case col == 1:
				return usage
			default:
				return r.NewStyle()
			}
		})

	for _, op := range ops {
		t.Row(op.String(), op.Usage(), op.Summary())
	}

	_, err := fmt.Fprintln(w, t.Render())

	return err
}

// selected returns the opcodes to list in table order, or in match rank
// order when a pattern is given.
func (o *Ops) selected() []lang.Opcode {
	ops := slices.Collect(lang.Opcodes())
	if o.Pattern == "" {
		return ops
	}

	matches := fuzzy.Find(o.Pattern, lang.OpcodeNames())
	selected := make([]lang.Opcode, 0, len(matches))

	for _, m := range matches {
		if op, ok := lang.ParseOpcode(m.Str); ok {
			selected = append(selected, op)
		}
	}

	return selected
}
