// Package logger provides structured logging built on zerolog.
//
// The package exposes a Logger interface so components can be tested with
// the in-memory TestLogger, plus a process-wide default configured once at
// startup via Initialize and retrieved with GetLogger.
package logger
