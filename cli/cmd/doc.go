// Package cmd implements the constgen subcommands.
//
// Every command loads the same two document kinds: an options document
// describing semantic types and output targets, and one or more
// constants documents declaring the constants themselves.
//
//   - gen:     resolve and generate one file per enabled target
//   - check:   resolve and print every constant's value
//   - targets: list configured targets
//   - repl:    evaluate expressions interactively
package cmd
