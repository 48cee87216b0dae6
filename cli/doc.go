// Package cli contains the command line interface for mson.
//
// # Usage
//
//	mson [flags] <command> [args]
//
// The default command is export, so
//
//	mson -a ./assets mson:steve
//
// resolves assets/mson/models/steve.json (or .yaml) and prints the tree.
// Asset roots come from --assets followed by $MSON_PATH.
//
// # Configuration
//
// Flag values are read from config.json and config.yaml in the user
// configuration directory. The YAML file holds a "config" mapping keyed by
// flag name; nested mappings join their keys with "-":
//
//	config:
//	  assets: [./assets]
//	  log:
//	    level: debug
//	    pretty: false
//
// "mson init" writes the current flag values to config.yaml.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize output on terminals
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o mson .
//
// With it, --pprof-mode selects one of the modes built into the profile package
// and --pprof-dir the output directory (default ~/.cache/mson/pprof).
package cli
