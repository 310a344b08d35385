package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/lotr/engine"
	"github.com/ardnew/lotr/log"
)

// Script is a command tree ready to run against a buffer of lines.
type Script struct {
	Name string
	Root *Command

	logger     log.Logger
	dispatcher Dispatcher
}

// Option configures a [Script].
type Option func(*Script)

// WithLogger sets the logger for script diagnostics.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(s *Script) {
		s.logger = logger
	}
}

// WithName sets the name reported in diagnostics.
func WithName(name string) Option {
	return func(s *Script) {
		s.Name = name
	}
}

// NewScript returns a Script that executes root.
func NewScript(root *Command, opts ...Option) *Script {
	s := &Script{Root: root}

	for _, opt := range opts {
		opt(s)
	}

	if s.Name != "" {
		s.logger = s.logger.With(slog.String("script", s.Name))
	}

	s.dispatcher = NewDispatcher(s.logger)

	return s
}

// Execute runs the script once against e.
func (s *Script) Execute(ctx context.Context, e *engine.Engine) Result {
	s.logger.DebugContext(ctx, "script start",
		slog.Int("lines", e.Len()),
	)

	result := Passed
	if s.Root != nil {
		result = s.Root.Execute(ctx, s.dispatcher, e)
	}

	s.logger.DebugContext(ctx, "script done",
		slog.String("result", result.String()),
		slog.Int("lines", e.Len()),
		slog.Int("cursor", e.Cursor()),
		slog.Int("range_end", e.RangeEnd()),
	)

	return result
}

// Run executes the script against a copy of lines and returns the resulting
// lines along with the result.
func (s *Script) Run(ctx context.Context, lines []string) ([]string, Result) {
	e := engine.New(lines)
	r := s.Execute(ctx, e)

	return e.Lines(), r
}
