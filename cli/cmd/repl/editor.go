package repl

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/ardnew/lotr/log"
)

const defaultEditor = "vi"

// editBufferCommand implements [tea.ExecCommand]. It writes the buffer to a
// temp file, opens the user's editor, and reads the lines back.
type editBufferCommand struct {
	lines   []string
	ctxFunc func() context.Context
	edited  []string
	changed bool
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editBufferCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editBufferCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editBufferCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run opens the editor on the buffer. An editor exiting with an error
// leaves the buffer unchanged.
func (c *editBufferCommand) Run() (err error) {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp(os.TempDir(), "lotr-repl-*.txt")
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	_, err = io.WriteString(f, joinLines(c.lines))
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return err
	}

	if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
		var exit *exec.ExitError
		if errors.As(err, &exit) {
			return ErrEditDeclined
		}

		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c.edited = splitLines(string(data))
	c.changed = !slices.Equal(c.edited, c.lines)

	c.logger.TraceContext(ctx, "repl edit",
		slog.Int("lines_before", len(c.lines)),
		slog.Int("lines_after", len(c.edited)),
		slog.Bool("changed", c.changed),
	)

	return nil
}

// runEditor launches $EDITOR on the given file path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	args := strings.Fields(editor)

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...) //nolint:gosec
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}

// joinLines joins lines, terminating each with '\n'.
func joinLines(lines []string) string {
	var b strings.Builder

	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	return b.String()
}

// splitLines splits text on '\n', dropping one trailing '\r' from each line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	var lines []string

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(nil, len(text)+1)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	return lines
}
