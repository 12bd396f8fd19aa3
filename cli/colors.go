package cli

import (
	"os"

	"github.com/aledsdavies/mrecognizer/core/astfmt"
	"github.com/mattn/go-isatty"
)

const (
	ColorReset  = astfmt.ColorReset
	ColorRed    = "\033[31m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorGray   = astfmt.ColorGray
)

// Colorize wraps text in ANSI color codes if color is enabled
func Colorize(text, color string, useColor bool) string {
	return astfmt.Colorize(text, color, useColor)
}

// ShouldUseColor resolves a color mode of auto, always or never. Auto
// colors only a terminal and honours NO_COLOR.
func ShouldUseColor(mode string, noColorFlag bool, out *os.File) bool {
	if noColorFlag {
		return false
	}
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" || out == nil {
		return false
	}
	fd := out.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
