// Package logging constructs the slog loggers used across shelfcheck.
//
// Two output formats are supported: a human-oriented console format for
// interactive runs and line-delimited JSON for log files and scripting.
// Components obtain scoped loggers through NewComponentLogger so every
// record carries a stable "component" attribute.
package logging
