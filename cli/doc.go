// Package cli contains the command line interface for spinifex.
//
// # Usage
//
// Every command takes a band-math expression either as an argument or, when
// the argument is "-", from stdin:
//
//	spinifex check '(b4 - b3) / (b4 + b3)'
//	spinifex lower --ramp viridis --min 0 --max 1 'ndvi()'
//	spinifex calc --width 256 --height 256 '(b4 - b3) / (b4 + b3)'
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Enable colorized pretty printing
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag
// (go build -tags pprof):
//
//   - --pprof-mode: Enable profiling (allocs, block, cpu, goroutine, mem,
//     mutex, trace)
//   - --pprof-dir: Set profile output directory
package cli
