// Package logger is a standardized event logging framework for the shell.
//
// Events are recorded as newline delimited JSON objects, one LogEntry per line,
// and can be replayed into a Report.
package logger
