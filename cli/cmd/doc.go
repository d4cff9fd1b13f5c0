// Package cmd implements the dash subcommands: run, check, fmt, repl, and
// init.
//
// Commands receive a [context.Context] carrying the parsed [kong.Context]
// ([WithContext]), the script search path ([WithSearchPath]), and the
// standard streams ([WithStdio]), so each one can be exercised in tests
// without touching the process environment.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
