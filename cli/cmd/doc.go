// Package cmd implements the lotr subcommands: run, check, ops, init, and
// repl.
//
// Commands receive a [context.Context] carrying the parsed [kong.Context]
// ([WithContext]), the script search path ([WithScriptPath]), and the
// process streams ([WithStreams]).
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
