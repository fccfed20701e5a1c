// Package ui renders the CLI's progress output. Everything prints to
// stderr so the CSV export can stream to stdout uncontaminated.
package ui

import (
	"os"
	"strings"

	"github.com/fatih/color"
)

const headerWidth = 60

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	stepColor    = color.New(color.FgBlue)
	successColor = color.New(color.FgGreen)
	infoColor    = color.New(color.FgWhite)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
)

// Header prints a banner line for the run.
func Header(text string) {
	headerColor.Fprintln(os.Stderr, center(text, headerWidth))
	headerColor.Fprintln(os.Stderr, center(strings.Repeat("─", len(text)), headerWidth))
}

// Step prints one numbered pipeline step.
func Step(current, total int, text string) {
	stepColor.Fprintf(os.Stderr, "[%d/%d] %s\n", current, total, text)
}

// Success prints a completed-step line.
func Success(text string) {
	successColor.Fprintf(os.Stderr, "  ✓ %s\n", text)
}

// Info prints a neutral detail line.
func Info(text string) {
	infoColor.Fprintf(os.Stderr, "  · %s\n", text)
}

// Warning prints a non-fatal problem.
func Warning(text string) {
	warningColor.Fprintf(os.Stderr, "  ! %s\n", text)
}

// Error prints a fatal problem.
func Error(text string) {
	errorColor.Fprintf(os.Stderr, "  ✗ %s\n", text)
}

// center left-pads text so it sits centered within width. Text wider than
// width prints unchanged.
func center(text string, width int) string {
	if len(text) >= width {
		return text
	}
	return strings.Repeat(" ", (width-len(text))/2) + text
}
