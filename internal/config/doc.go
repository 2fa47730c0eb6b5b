// Package config provides configuration management for promptpack.
// It registers command-line flags, reads PROMPTPACK_* environment variables
// and validates the result.
//
// # Configuration Loading
//
//	fs := pflag.NewFlagSet("promptpack", pflag.ContinueOnError)
//	config.RegisterFlags(fs)
//	_ = fs.Parse(os.Args[1:])
//
//	cfg, err := config.Load(fs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// A flag given on the command line wins over the environment, which wins
// over the defaults.
//
// # Environment Variables
//
//	PROMPTPACK_OUTPUT        Output file path (default: prompt.txt)
//	PROMPTPACK_CLIPBOARD     Copy to clipboard instead of writing a file
//	PROMPTPACK_EXCLUDE       Comma-separated extra ignore patterns
//	PROMPTPACK_NO_DEFAULTS   Disable the built-in ignore patterns
//	PROMPTPACK_NO_GITIGNORE  Do not read .gitignore
//	PROMPTPACK_MAX_SIZE      Largest included file in bytes (default: 1048576)
//	PROMPTPACK_EXT           Comma-separated extension allow-list
//	PROMPTPACK_WORKERS       Number of concurrent readers (default: CPU cores)
//	PROMPTPACK_RATE_LIMIT    File reads per second (0 for unlimited)
//	PROMPTPACK_FORMAT        Output format: text|json|yaml
//	PROMPTPACK_VERBOSE       Verbosity level (a number or a run of 'v's)
//	PROMPTPACK_NO_PROGRESS   Disable progress reporting
//	PROMPTPACK_NO_COLOR      Disable colored output
//
// # Default Data
//
// DefaultPatterns and BinaryExtensions return copies of the built-in ignore
// list and binary extension set, so callers can never modify the shared data.
package config
