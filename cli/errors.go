package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// errDiagnostics marks a run whose report held errors. They were already
// printed, so only the exit status is left to set.
var errDiagnostics = errors.New("recognition reported errors")

// CLIError represents a formatted CLI error with context
type CLIError struct {
	Type    string // "usage", "config", "input", "output"
	Message string
	Hint    string // How to fix it
	Cause   error
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

func (e *CLIError) Unwrap() error {
	return e.Cause
}

// FormatError formats an error for CLI output with colors
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}

	var cliErr *CLIError
	if !errors.As(err, &cliErr) {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
		return
	}

	msg := cliErr.Message
	if cliErr.Cause != nil {
		msg += ": " + cliErr.Cause.Error()
	}
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), msg)
	if cliErr.Hint != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), cliErr.Hint)
	}
}
