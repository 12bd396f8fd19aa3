// Package report accumulates severity-tagged diagnostics for one or more
// recognized source units.
package report

import (
	"fmt"
	"slices"

	"github.com/aledsdavies/mrecognizer/core/invariant"
)

// Severity orders diagnostics: Info < Warning < Error.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

var severityNames = [...]string{
	Info:    "Info",
	Warning: "Warning",
	Error:   "Error",
}

func (s Severity) String() string {
	if s >= 0 && int(s) < len(severityNames) {
		return severityNames[s]
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Message is one diagnostic. Line and Column are 1-based; zero means unknown.
type Message struct {
	Severity Severity
	Path     string
	Line     int
	Column   int
	Text     string
}

func (m Message) String() string {
	return fmt.Sprintf("[%s] %s Line: [%d] Column: [%d] Text: [%s]",
		m.Severity, m.Path, m.Line, m.Column, m.Text)
}

// Reader is the read-only view handed to callers of the recognizer.
type Reader interface {
	Severity() Severity
	IsOk() bool
	Len() int
	Count(Severity) int
	Messages() []Message
}

// Report collects messages in insertion order. The zero value is ready to use.
type Report struct {
	messages []Message
	counts   [len(severityNames)]int
}

// New returns an empty report.
func New() *Report {
	return &Report{}
}

// Add records one message.
func (r *Report) Add(severity Severity, path string, line, column int, text string) {
	invariant.Precondition(severity >= Info && severity <= Error, "unknown severity %d", int(severity))
	r.messages = append(r.messages, Message{
		Severity: severity,
		Path:     path,
		Line:     line,
		Column:   column,
		Text:     text,
	})
	r.counts[severity]++
}

func (r *Report) AddInfo(path string, line, column int, text string) {
	r.Add(Info, path, line, column, text)
}

func (r *Report) AddWarning(path string, line, column int, text string) {
	r.Add(Warning, path, line, column, text)
}

func (r *Report) AddError(path string, line, column int, text string) {
	r.Add(Error, path, line, column, text)
}

// AddRange appends every message of other, preserving its order.
func (r *Report) AddRange(other Reader) {
	if other == nil {
		return
	}
	for _, m := range other.Messages() {
		r.Add(m.Severity, m.Path, m.Line, m.Column, m.Text)
	}
}

// Severity returns the highest severity present, Info for an empty report.
func (r *Report) Severity() Severity {
	for s := Error; s > Info; s-- {
		if r.counts[s] > 0 {
			return s
		}
	}
	return Info
}

// IsOk reports whether no Error message was recorded.
func (r *Report) IsOk() bool {
	return r.counts[Error] == 0
}

func (r *Report) Len() int {
	return len(r.messages)
}

func (r *Report) Count(s Severity) int {
	if s < Info || s > Error {
		return 0
	}
	return r.counts[s]
}

// Messages returns a copy of the recorded messages.
func (r *Report) Messages() []Message {
	return slices.Clone(r.messages)
}

// ReadOnly returns a view of r that cannot be used to add messages.
func (r *Report) ReadOnly() Reader {
	return readOnly{r: r}
}

type readOnly struct {
	r *Report
}

func (v readOnly) Severity() Severity   { return v.r.Severity() }
func (v readOnly) IsOk() bool           { return v.r.IsOk() }
func (v readOnly) Len() int             { return v.r.Len() }
func (v readOnly) Count(s Severity) int { return v.r.Count(s) }
func (v readOnly) Messages() []Message  { return v.r.Messages() }
