package config

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration parameters for the application
type Config struct {
	// Output is the path of the generated document
	Output string

	// Clipboard copies the document to the clipboard instead of writing Output
	Clipboard bool

	// Excludes are extra ignore patterns applied after defaults and .gitignore
	Excludes []string

	// NoDefaults disables the built-in ignore patterns
	NoDefaults bool

	// NoGitignore disables reading .gitignore from the scanned directory
	NoGitignore bool

	// MaxSize is the largest file in bytes whose content is included
	MaxSize int64

	// Extensions restricts collection to these extensions when non-empty
	Extensions []string

	// Workers is the number of concurrent file readers
	Workers int

	// RateLimit is the maximum number of file reads per second (0 for unlimited)
	RateLimit int

	// Format is the document format (text, json or yaml)
	Format string

	// Verbose sets the verbosity level
	Verbose int

	// NoProgress disables progress reporting
	NoProgress bool

	// NoColor disables colored output
	NoColor bool
}

// validOutputFormats contains the list of supported output formats
var validOutputFormats = map[string]bool{
	string(OutputFormatText): true,
	string(OutputFormatJSON): true,
	string(OutputFormatYAML): true,
}

// RegisterFlags adds every configuration flag to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagOutput, "o", DefaultOutputFile, "output file path")
	fs.BoolP(FlagClipboard, "c", false, "copy the output to the clipboard instead of writing a file")
	fs.StringArrayP(FlagExclude, "e", nil, "additional pattern to exclude (can be used multiple times)")
	fs.Bool(FlagNoDefaults, false, "do not apply the built-in ignore patterns")
	fs.Bool(FlagNoGitignore, false, "do not read .gitignore from the directory")
	fs.Int64(FlagMaxSize, DefaultMaxSize, "skip files larger than this many bytes")
	fs.StringArrayP(FlagExt, "x", nil, "only include files with this extension (can be used multiple times)")
	fs.IntP(FlagWorkers, "w", runtime.NumCPU(), "number of concurrent file readers")
	fs.IntP(FlagRateLimit, "r", 0, "maximum file reads per second (0 for unlimited)")
	fs.StringP(FlagFormat, "f", string(OutputFormatText), "output format: text|json|yaml")
	fs.CountP(FlagVerbose, "v", "verbose output (can be used multiple times)")
	fs.Bool(FlagNoProgress, false, "disable progress reporting")
	fs.Bool(FlagNoColor, false, "disable colored output")
}

// Load resolves the configuration from flags, PROMPTPACK_* environment
// variables and defaults, in that order of precedence, and validates it.
// fs may be nil, in which case only the environment and defaults apply.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault(FlagOutput, DefaultOutputFile)
	v.SetDefault(FlagClipboard, false)
	v.SetDefault(FlagNoDefaults, false)
	v.SetDefault(FlagNoGitignore, false)
	v.SetDefault(FlagMaxSize, DefaultMaxSize)
	v.SetDefault(FlagWorkers, runtime.NumCPU())
	v.SetDefault(FlagRateLimit, 0)
	v.SetDefault(FlagFormat, string(OutputFormatText))
	v.SetDefault(FlagVerbose, 0)
	v.SetDefault(FlagNoProgress, false)
	v.SetDefault(FlagNoColor, false)

	// Configure environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// List flags are read from the flag set directly; the environment
	// carries them comma-separated.
	for _, key := range []string{FlagExclude, FlagExt} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if fs != nil {
		for _, key := range []string{
			FlagOutput, FlagClipboard, FlagNoDefaults, FlagNoGitignore,
			FlagMaxSize, FlagWorkers, FlagRateLimit, FlagFormat,
			FlagVerbose, FlagNoProgress, FlagNoColor,
		} {
			if flag := fs.Lookup(key); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return Config{}, fmt.Errorf("failed to bind flag %s: %w", key, err)
				}
			}
		}
	}

	cfg := Config{
		Output:      v.GetString(FlagOutput),
		Clipboard:   v.GetBool(FlagClipboard),
		Excludes:    stringList(v, fs, FlagExclude),
		NoDefaults:  v.GetBool(FlagNoDefaults),
		NoGitignore: v.GetBool(FlagNoGitignore),
		MaxSize:     v.GetInt64(FlagMaxSize),
		Extensions:  stringList(v, fs, FlagExt),
		Workers:     v.GetInt(FlagWorkers),
		RateLimit:   v.GetInt(FlagRateLimit),
		Format:      strings.ToLower(v.GetString(FlagFormat)),
		Verbose:     parseVerbosity(v.GetString(FlagVerbose)),
		NoProgress:  v.GetBool(FlagNoProgress),
		NoColor:     v.GetBool(FlagNoColor),
	}

	// Handle special case for workers=0
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// stringList returns the values of a repeatable flag when it was given on
// the command line, otherwise the comma-separated environment value.
func stringList(v *viper.Viper, fs *pflag.FlagSet, key string) []string {
	if fs != nil {
		if flag := fs.Lookup(key); flag != nil && flag.Changed {
			values, err := fs.GetStringArray(key)
			if err == nil {
				return values
			}
		}
	}

	raw := v.GetString(key)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parseVerbosity accepts either a number or a run of 'v's.
func parseVerbosity(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return strings.Count(s, "v")
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	// Validate workers count
	if c.Workers < 1 {
		return fmt.Errorf("workers count must be positive")
	}
	maxWorkers := runtime.NumCPU() * MaxWorkerMultiplier
	if c.Workers > maxWorkers {
		return fmt.Errorf("workers count cannot exceed system CPU count * %d", MaxWorkerMultiplier)
	}

	if c.MaxSize <= 0 {
		return fmt.Errorf("max size must be positive")
	}

	// Validate output format
	if !validOutputFormats[c.Format] {
		return fmt.Errorf("invalid output format %q: must be one of [text json yaml]", c.Format)
	}

	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("output path must not be empty")
	}

	// Validate rate limit
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}

	if c.Verbose < 0 {
		return fmt.Errorf("verbosity must be non-negative")
	}

	return nil
}

// String returns a string representation of the configuration
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Output: %s, Clipboard: %v, Format: %s, Workers: %d, RateLimit: %d, "+
			"MaxSize: %d, NoDefaults: %v, NoGitignore: %v, Excludes: %v, Extensions: %v, "+
			"NoProgress: %v, NoColor: %v, Verbose: %d}",
		c.Output, c.Clipboard, c.Format, c.Workers, c.RateLimit,
		c.MaxSize, c.NoDefaults, c.NoGitignore, c.Excludes, c.Extensions,
		c.NoProgress, c.NoColor, c.Verbose,
	)
}
