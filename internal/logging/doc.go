// Package logging builds the slog loggers used by viralcut.
//
// Console output is a compact single-line format, coloured when the target is a
// terminal; JSON output is meant for log shippers. Components derive child
// loggers with NewComponentLogger so every line carries its origin.
package logging
