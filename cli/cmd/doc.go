// Package cmd provides the spinifex subcommands for checking, formatting,
// lowering, and evaluating band-math expressions.
package cmd
