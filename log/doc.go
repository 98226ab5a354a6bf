// Package log provides a simple, leveled logging interface for the deepresearch pipeline.
//
// This package implements a lightweight logging system with support for different log levels
// and customizable output destinations. Every component of the pipeline (engine, planner,
// summarizer, search providers, stores) accepts a Logger in its configuration and falls
// back to the package-level default when none is given.
//
// # Log Levels
//
// The package supports five log levels, in order of increasing severity:
//
//   - LogLevelDebug: Detailed debugging information for development
//   - LogLevelInfo: General informational messages about normal operation
//   - LogLevelWarn: Warning messages for potentially problematic situations
//   - LogLevelError: Error messages for failures that need attention
//   - LogLevelNone: Disables all logging output
//
// # Example Usage
//
// ## Basic Logging
//
//	// Create a logger with INFO level
//	logger := log.NewDefaultLogger(log.LogLevelInfo)
//
//	logger.Info("research run starting")
//	logger.Debug("dispatching sub-query: %s", query)
//	logger.Warn("provider rate limit approaching: %d requests", count)
//	logger.Error("search task failed: %v", err)
//
// ## Custom Output
//
//	// Create a logger that writes to a file
//	file, err := os.OpenFile("research.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer file.Close()
//
//	logger := log.NewCustomLogger(file, log.LogLevelDebug)
//
// ## Global Default
//
//	// Raise verbosity for every component that did not get an explicit logger
//	log.SetLogLevel(log.LogLevelDebug)
//
// # golog Integration
//
// For users who prefer the `github.com/kataras/golog` library, a minimal wrapper
// is provided:
//
//	glogger := golog.New()
//	logger := log.NewGologLogger(glogger)
//	logger.SetLevel(log.LogLevelDebug)
//
// The wrapper respects the package's log levels while using golog's formatting
// and output handling.
//
// # Thread Safety
//
// The DefaultLogger implementation is thread-safe and can be used concurrently from
// multiple goroutines. The underlying log.Logger from Go's standard library handles
// synchronization internally. Research trees log from many goroutines at once.
package log
