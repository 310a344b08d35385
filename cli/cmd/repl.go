package cmd

import (
	"context"

	"github.com/ardnew/lotr/cli/cmd/repl"
	"github.com/ardnew/lotr/log"
)

// Repl starts an interactive session over the lines of the input files.
type Repl struct {
	Files []string `arg:"" help:"Input file(s) or '-' for stdin (default: empty buffer)" name:"file" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var lines []string

	if len(r.Files) > 0 {
		lines, err = readInput(ctx, r.Files)
		if err != nil {
			return err
		}
	}

	return repl.Run(ctx, lines, kongVar(ctx, CacheIdentifier), log.Default())
}
