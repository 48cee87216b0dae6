// Package cmd implements the mson subcommands. Each command resolves one
// model id from the asset roots stored in its context by [WithAssets].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// of the YAML configuration file.
	ConfigIdentifier = "config"
)
