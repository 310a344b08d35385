// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Time formatting, caller information, colorization, and output format are
// applied at logger creation time using functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("script loaded", slog.String("name", "ini.yaml"))
//	logger.Error("cannot read input", slog.Any("error", err))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger with further options applied, and
// [Logger.With] derives one that adds attributes to every record.
//
// # Package Logger
//
// The package-level functions ([Info], [Warn], and so on) write through a
// default logger on [os.Stderr]. [Config] reconfigures it and [Default]
// returns a copy.
//
// Context-unaware functions and methods pass [DefaultContextProvider]'s
// context to the handler. It returns [context.TODO] unless replaced.
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug] and is written as "TRACE" rather
// than slog's "DEBUG-4".
//
// # Output Formats
//
// [FormatText] (default) writes key=value pairs, [FormatJSON] writes one
// object per record. With [WithPretty], both are colorized when the output
// is a terminal, and JSON is indented.
package log
