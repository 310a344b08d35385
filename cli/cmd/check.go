package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/ardnew/lotr/lang"
)

// Check decodes scripts and writes each in normalized form.
type Check struct {
	Scripts []string `arg:"" help:"Script file(s), or script names on the search path" name:"script"`

	Indent int  `default:"2" help:"Indent width (0 writes flow style)" short:"i"`
	JSON   bool `            help:"Write the command tree as JSON"     short:"j"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	out := streamsFrom(ctx).Out

	var errs []error

	for i, name := range c.Scripts {
		script, err := loadScript(ctx, name)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		if err := c.write(ctx, out, i, script); err != nil {
			return ErrWriteOutput.Wrap(err).With(slog.String("script", name))
		}
	}

	return errors.Join(errs...)
}

func (c *Check) write(
	ctx context.Context,
	w io.Writer,
	index int,
	script *lang.Script,
) error {
	if c.JSON {
		return script.Root.FormatJSON(ctx, w, c.Indent)
	}

	if index > 0 {
		if _, err := io.WriteString(w, "---\n"); err != nil {
			return err
		}
	}

	return script.Root.Format(ctx, w, c.Indent)
}
