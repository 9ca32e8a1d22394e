// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// and output formats that are applied at logger creation time using
// functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithCaller(true))
//	logger.Info("layer registered", slog.String("name", "ndvi"))
//
// A package-level default logger writes to stderr and is reconfigured
// with [Config]; the engine packages accept a [Logger] value so callers
// decide where diagnostics go.
//
// In addition to the standard slog levels, the package defines
// [LevelTrace] below [LevelDebug] for per-expression diagnostics that
// are too chatty for debug output.
package log
