package cli

import (
	"fmt"
	"io"

	"github.com/aledsdavies/mrecognizer/core/report"
	"github.com/aledsdavies/mrecognizer/runtime/recognizer"
)

var severityColors = map[report.Severity]string{
	report.Info:    ColorCyan,
	report.Warning: ColorYellow,
	report.Error:   ColorRed,
}

// DisplayDiagnostics prints one line per message:
//
//	[Error] a.m Line: [2] Column: [5] Text: [LEXER - ...]
func DisplayDiagnostics(w io.Writer, r report.Reader, useColor bool) {
	for _, m := range r.Messages() {
		label := Colorize("["+m.Severity.String()+"]", severityColors[m.Severity], useColor)
		_, _ = fmt.Fprintf(w, "%s %s Line: [%d] Column: [%d] Text: [%s]\n",
			label, m.Path, m.Line, m.Column, m.Text)
	}
}

// DisplaySummary prints the closing count line.
func DisplaySummary(w io.Writer, files int, r report.Reader, useColor bool) {
	errs := r.Count(report.Error)
	status := Colorize("ok", ColorCyan, useColor)
	if errs > 0 {
		status = Colorize("failed", ColorRed, useColor)
	}
	_, _ = fmt.Fprintf(w, "%s: %d file(s), %d error(s), %d warning(s)\n",
		status, files, errs, r.Count(report.Warning))
}

// DisplayStats prints per-file attempt counts and timings for --debug.
func DisplayStats(w io.Writer, stats []recognizer.FileStats, useColor bool) {
	for _, s := range stats {
		line := fmt.Sprintf("%s attempts=%d markers=%d outcome=%s", s.Path, s.Attempts, len(s.Markers), s.Outcome)
		if t := s.Telemetry; t != nil {
			line += fmt.Sprintf(" tokens=%d nodes=%d lex=%s parse=%s", t.TokenCount, t.NodeCount, t.LexTime, t.ParseTime)
		}
		_, _ = fmt.Fprintln(w, Colorize(line, ColorGray, useColor))
	}
}
