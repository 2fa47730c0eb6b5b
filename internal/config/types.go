package config

// OutputFormat represents the supported document formats
type OutputFormat string

const (
	// OutputFormatText is the plain text document with a directory tree header
	OutputFormatText OutputFormat = "text"

	// OutputFormatJSON represents the JSON output format
	OutputFormatJSON OutputFormat = "json"

	// OutputFormatYAML represents the YAML output format
	OutputFormatYAML OutputFormat = "yaml"
)

// Constants for configuration limits and defaults
const (
	// DefaultOutputFile is written when no --output is given
	DefaultOutputFile = "prompt.txt"

	// DefaultMaxSize is the largest file, in bytes, whose content is included
	DefaultMaxSize int64 = 1024 * 1024

	// MaxWorkerMultiplier is the maximum multiple of CPU cores for worker count
	MaxWorkerMultiplier = 4

	// EnvPrefix prefixes every environment variable read by Load
	EnvPrefix = "PROMPTPACK"
)

// Flag names shared by RegisterFlags and Load.
const (
	FlagOutput      = "output"
	FlagClipboard   = "clipboard"
	FlagExclude     = "exclude"
	FlagNoDefaults  = "no-defaults"
	FlagNoGitignore = "no-gitignore"
	FlagMaxSize     = "max-size"
	FlagExt         = "ext"
	FlagWorkers     = "workers"
	FlagRateLimit   = "rate-limit"
	FlagFormat      = "format"
	FlagVerbose     = "verbose"
	FlagNoProgress  = "no-progress"
	FlagNoColor     = "no-color"
)
