// Package cli contains the command line interface for constgen.
//
// # Usage
//
// The CLI provides four commands over the same pair of document kinds
// (an options document and one or more constants documents):
//
//	constgen gen     -o targets.yml -c constants.yml -d out/
//	constgen check   -o targets.yml -c constants.yml
//	constgen targets -o targets.yml
//	constgen repl    -o targets.yml -c constants.yml
//
// gen is the default command, so its flags may be given bare:
//
//	constgen -o targets.yml -c constants.yml
//
// # Configuration
//
// Flag defaults may be stored in the user configuration directory as
// JSON (config.json) or YAML (config.yml); command-line flags override
// both.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Enable colorized pretty printing
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/constgen/pprof)
package cli
