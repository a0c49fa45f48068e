// Package log provides a thin, concurrency-safe facade over [log/slog].
//
// A [Logger] is an immutable value: configuration methods return new
// loggers instead of mutating the receiver. The package also maintains a
// default logger used by the package-level functions, which the CLI
// configures early from its --log-* flags via [Config].
package log
