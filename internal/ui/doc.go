// Package ui provides theme and color support for the command-line output.
// It holds ANSI escape codes for plain text and lipgloss colors for the
// results table, so presentation packages share one active theme.
package ui
