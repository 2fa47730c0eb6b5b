/*
Package logger provides structured logging for promptpack. It wraps
uber-go/zap behind a small interface with verbosity levels and field
support.

Basic Usage:

	log := logger.NewLogger(logger.Config{
	    Verbosity: 1,
	})

	log.Warn("Clipboard unavailable")  // always shown
	log.Info("Collection started")     // verbosity >= 1
	log.Debug("Pruned directory")      // verbosity >= 2
	log.Trace("Read file")             // verbosity >= 3

Verbosity Levels:

	0: Warn, Error (default)
	1: Info + Level 0
	2: Debug + Level 1
	3: Trace + Level 2

Structured Logging:

	log.WithFields(logger.Fields{
	    "path":  "src/main.go",
	    "bytes": 1024,
	}).Debug("File read")

Entries are JSON by default. Config.Format set to "console" switches to
zap's human-readable console encoder. All entries go to stderr unless
Config.Output says otherwise, so they never mix with the generated document.

The logger is safe for concurrent use by multiple goroutines.
*/
package logger
