package cmd

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/ardnew/lotr/lang"
	"github.com/ardnew/lotr/log"
)

// Run executes a script against the lines of the input files.
type Run struct {
	Script string   `arg:"" help:"Script file, or script name on the search path" name:"script"`
	Files  []string `arg:"" help:"Input file(s) or '-' for stdin (default: stdin)" name:"file"   optional:""`

	Output  string        `help:"Write lines to file instead of stdout"        placeholder:"FILE" short:"o" type:"path"`
	Timeout time.Duration `help:"Abort the script after this duration (0: never)" default:"0s"   short:"t"`
	Quiet   bool          `help:"Write nothing unless the script passes"                         short:"q"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	script, err := loadScript(ctx, r.Script)
	if err != nil {
		return err
	}

	lines, err := readInput(ctx, r.Files)
	if err != nil {
		return err
	}

	if r.Timeout > 0 {
		var stop context.CancelFunc

		ctx, stop = context.WithTimeoutCause(ctx, r.Timeout,
			ErrTimeout.With(slog.Duration("timeout", r.Timeout)))
		defer stop()
	}

	out, result := script.Run(ctx, lines)

	log.DebugContext(ctx, "run complete",
		slog.String("script", script.Name),
		slog.String("result", result.String()),
		slog.Int("lines_in", len(lines)),
		slog.Int("lines_out", len(out)),
	)

	// An aborted script, including one that timed out, produces no output.
	if result == lang.Aborted || (r.Quiet && !result.Ok()) {
		return statusOf(result)
	}

	if err := r.write(ctx, out); err != nil {
		return err
	}

	return statusOf(result)
}

func (r *Run) write(ctx context.Context, lines []string) (err error) {
	if r.Output == "" {
		if err := writeLines(streamsFrom(ctx).Out, lines); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}

	file, err := os.Create(r.Output)
	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("file", r.Output))
	}

	defer func() { err = errors.Join(err, file.Close()) }()

	w := bufio.NewWriter(file)

	if err := writeLines(w, lines); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("file", r.Output))
	}

	if err := w.Flush(); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("file", r.Output))
	}

	return nil
}
