// Package cli contains the command line interface for dash.
//
// # Usage
//
//	dash [flags] [run] [SOURCE]
//	dash check SOURCE
//	dash fmt {native|json|yaml|ast} SOURCE
//	dash repl [SOURCE...]
//	dash init [--force]
//
// With no command, dash runs SOURCE, or standard input if it is omitted.
// A SOURCE that is not an existing file is looked up in each --path
// directory and then in each directory listed in $DASH_PATH, with and
// without the ".dash" extension.
//
// # Configuration
//
// Flag defaults are read from config.yaml and config.json in the user
// configuration directory (for example ~/.config/dash). The YAML file holds
// a mapping of flag names to values, either at the top level or under a
// "config" key as written by "dash init":
//
//	config:
//	  log-level: debug
//	  path:
//	    - ~/lib/dash
//
// Command-line flags override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output on terminals
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag
// ("go build -tags pprof"):
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/dash/pprof)
//
// # Examples
//
//	# Trace every call while running a script
//	dash --log-level=trace run fib.dash
//
//	# Bind globals on the command line
//	dash run -D 'n=10' -D 'home=env("HOME")' fib
//
//	# CPU profile of a long-running script
//	dash --pprof-mode=cpu run bench.dash
package cli
