// Package recognizer drives lexing, parsing and AST building for source
// files, repeating parse attempts until command syntax is settled.
package recognizer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aledsdavies/mrecognizer/core/ast"
	"github.com/aledsdavies/mrecognizer/core/invariant"
	"github.com/aledsdavies/mrecognizer/core/report"
	"github.com/aledsdavies/mrecognizer/runtime/builder"
	"github.com/aledsdavies/mrecognizer/runtime/lexer"
	"github.com/aledsdavies/mrecognizer/runtime/parser"
)

// eofMarker is the legacy end-of-file control character (Ctrl-Z).
const eofMarker = '\x1a'

// Notifier receives each file's own diagnostics, in input order, once its
// recognition has finished.
type Notifier func(path string, diagnostics report.Reader)

// Result carries the recognized tree and every diagnostic. Value is nil
// unless a tree was requested and the report holds no errors.
type Result struct {
	Value  *ast.Node
	Report report.Reader
	Files  []FileStats
}

// FileStats describes how one file was recognized.
type FileStats struct {
	Path      string
	Attempts  int
	Markers   []int          // command offsets, ascending
	Outcome   parser.Outcome // of the last attempt
	Telemetry *parser.ParseTelemetry
}

// unit is the private outcome for one file. file is built but not frozen.
type unit struct {
	file   *ast.Node
	report *report.Report
	stats  FileStats
}

// FixText drops everything from the first Ctrl-Z on and appends two line
// ends so the last statement is always terminated.
func FixText(text string) string {
	if i := strings.IndexRune(text, eofMarker); i >= 0 {
		text = text[:i]
	}
	return text + "\n\n"
}

// Recognize recognizes one unit of text. Value, when present, is the frozen
// file node.
func Recognize(path, text string, buildTree bool, opts ...Option) Result {
	c := newConfig(opts)
	u := c.recognize(path, text, lexer.NewCommandMarker(), buildTree)
	if u.file != nil {
		u.file.Freeze()
	}
	return Result{Value: u.file, Report: u.report.ReadOnly(), Files: []FileStats{u.stats}}
}

// RecognizeText recognizes text without a path. Value, when present, is a
// frozen Unit with one file.
func RecognizeText(text string, buildTree bool, opts ...Option) Result {
	c := newConfig(opts)
	u := c.recognize("", text, lexer.NewCommandMarker(), buildTree)
	return c.assemble([]unit{u}, buildTree)
}

// RecognizeFile reads and recognizes one file.
func RecognizeFile(path string, buildTree bool, opts ...Option) Result {
	return RecognizeFiles([]string{path}, buildTree, nil, opts...)
}

// RecognizeFiles recognizes every path independently and aggregates their
// diagnostics in input order. notify, when set, is called once per file.
// Value is a frozen Unit holding every file, present only when all files
// succeeded.
func RecognizeFiles(paths []string, buildTree bool, notify Notifier, opts ...Option) Result {
	c := newConfig(opts)
	units := make([]unit, len(paths))

	if c.parallelism <= 1 || len(paths) <= 1 {
		for i, path := range paths {
			units[i] = c.recognizeFile(path, buildTree)
			if notify != nil {
				notify(path, units[i].report.ReadOnly())
			}
		}
		return c.assemble(units, buildTree)
	}

	done := make([]chan struct{}, len(paths))
	for i := range done {
		done[i] = make(chan struct{})
	}
	slots := make(chan struct{}, c.parallelism)
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			slots <- struct{}{}
			defer func() { <-slots }()
			units[i] = c.recognizeFile(path, buildTree)
			close(done[i])
		}()
	}

	// Notify in input order as soon as each prefix is complete.
	for i, path := range paths {
		<-done[i]
		if notify != nil {
			notify(path, units[i].report.ReadOnly())
		}
	}
	wg.Wait()

	return c.assemble(units, buildTree)
}

// assemble merges per-file reports and, when every file succeeded, wraps the
// files in a frozen Unit.
func (c *config) assemble(units []unit, buildTree bool) Result {
	combined := report.New()
	stats := make([]FileStats, len(units))
	for i, u := range units {
		combined.AddRange(u.report.ReadOnly())
		stats[i] = u.stats
	}

	result := Result{Report: combined.ReadOnly(), Files: stats}
	if !buildTree || !combined.IsOk() {
		return result
	}

	root := ast.NewUnit()
	for _, u := range units {
		invariant.Invariant(u.file != nil, "successful file %q has no tree", u.stats.Path)
		root.AppendChild(u.file)
	}
	root.Freeze()
	result.Value = root
	return result
}

func (c *config) recognizeFile(path string, buildTree bool) (u unit) {
	defer func() {
		if r := recover(); r != nil {
			u = c.crashed(path, r)
		}
	}()

	data, err := c.readFile(path)
	if err != nil {
		rep := report.New()
		rep.AddError(path, 0, 0, fmt.Sprintf("cannot read file: %v", err))
		c.logger.Debug("read failed", "path", path, "error", err)
		return unit{report: rep, stats: FileStats{Path: path}}
	}
	return c.recognize(path, string(data), lexer.NewCommandMarker(), buildTree)
}

// recognize runs the retry loop for one unit. Each attempt starts from a
// fresh report against the same, growing marker set; only a command retry
// loops again.
func (c *config) recognize(path, text string, marker *lexer.CommandMarker, buildTree bool) unit {
	source := FixText(text)
	stats := FileStats{Path: path}

	var rep *report.Report
	var tree *parser.ParseTree
	for {
		stats.Attempts++
		rep = report.New()
		before := marker.Len()

		tree = c.attempt(path, source, marker, rep)
		if tree == nil {
			break
		}
		stats.Outcome = tree.Outcome
		stats.Telemetry = tree.Telemetry

		c.logger.Debug("recognition attempt",
			"path", path,
			"attempt", stats.Attempts,
			"markers", marker.Len(),
			"outcome", tree.Outcome,
			"tokens", len(tree.Tokens))

		if tree.Outcome != parser.OutcomeCommandRetry {
			break
		}
		invariant.Invariant(marker.Len() > before, "command retry without a new marker")
		if c.maxAttempts > 0 && stats.Attempts >= c.maxAttempts {
			rep.AddError(path, 0, 0, fmt.Sprintf("command syntax unresolved after %d attempts", stats.Attempts))
			break
		}
	}
	stats.Markers = marker.Offsets()

	u := unit{report: rep, stats: stats}
	if buildTree && rep.IsOk() && tree != nil && tree.Root != nil {
		u.file = c.build(tree.Root, path, rep)
	}
	return u
}

// attempt runs one lex and parse, copying its errors into rep. A panic is
// recorded as an error at 0:0 and yields a nil tree.
func (c *config) attempt(path, source string, marker *lexer.CommandMarker, rep *report.Report) (tree *parser.ParseTree) {
	defer func() {
		if r := recover(); r != nil {
			rep.AddError(path, 0, 0, fmt.Sprint(r))
			c.logger.Error("recognition panicked", "path", path, "panic", r)
			tree = nil
		}
	}()

	tree = parser.Parse(source, marker, c.parserOptions()...)
	for _, e := range tree.Errors {
		rep.AddError(path, e.Line(), e.Column(), e.Error())
	}
	return tree
}

func (c *config) build(root *parser.Node, path string, rep *report.Report) (file *ast.Node) {
	defer func() {
		if r := recover(); r != nil {
			rep.AddError(path, 0, 0, fmt.Sprint(r))
			c.logger.Error("tree building panicked", "path", path, "panic", r)
			file = nil
		}
	}()
	return builder.Build(root, path)
}

func (c *config) crashed(path string, r any) unit {
	rep := report.New()
	rep.AddError(path, 0, 0, fmt.Sprint(r))
	c.logger.Error("recognition panicked", "path", path, "panic", r)
	return unit{report: rep, stats: FileStats{Path: path}}
}
