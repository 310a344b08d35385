// Package cli contains the command line interface for lotr.
//
// # Usage
//
//	lotr [flags] run SCRIPT [FILE...]
//	lotr [flags] check SCRIPT...
//	lotr [flags] ops [PATTERN]
//	lotr [flags] repl [FILE...]
//	lotr [flags] init [--force]
//
// The run command is the default, so "lotr SCRIPT FILE" runs SCRIPT.
//
// # Scripts
//
// A SCRIPT argument naming an existing file is used as is. Any other name
// is looked up, with or without a .yaml or .yml extension, in:
//
//   - each directory given with --path (-P), in order
//   - each directory listed in $LOTR_PATH
//   - the scripts directory in the configuration directory
//
// # Exit Status
//
//   - 0: the script passed
//   - 1: an error occurred (bad arguments, I/O, or a script that fails to
//     decode)
//   - 2: the script failed
//   - 3: the script aborted, or timed out
//
// # Configuration
//
// Flag defaults are read from ~/.config/lotr/config.yaml (a mapping from flag
// name to value) and ~/.config/lotr/config.json. Command-line flags override
// both. "lotr init" writes the current flag values to config.yaml.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// Logs are written to stderr. Stdout carries only transformed lines.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o lotr .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/lotr/pprof)
//
// # Examples
//
//	# Turn "key = value" lines into "value: key"
//	lotr ini.yaml settings.conf
//
//	# Same, from stdin, writing to a file and giving up after a second
//	lotr run -t 1s -o out.txt ini < settings.conf
//
//	# Debug logging with CPU profiling
//	lotr --log-level=debug --pprof-mode=cpu ini settings.conf
package cli
