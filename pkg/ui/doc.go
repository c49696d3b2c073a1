// Package ui renders progress lines and the end-of-run summary for the
// command-line interface.
package ui
