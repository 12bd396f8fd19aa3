// Package cli is the mrecognize command line front end.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/aledsdavies/mrecognizer/core/ast"
	"github.com/aledsdavies/mrecognizer/core/astfmt"
	"github.com/aledsdavies/mrecognizer/core/logging"
	"github.com/aledsdavies/mrecognizer/core/report"
	"github.com/aledsdavies/mrecognizer/runtime/recognizer"
	"github.com/aledsdavies/mrecognizer/runtime/watch"
	"github.com/spf13/cobra"
)

type mode int

const (
	modeDump  mode = iota // recognize and write trees
	modeCheck             // diagnostics only
)

// flags holds the raw command line values.
type flags struct {
	configPath string
	pattern    string
	out        string
	format     string
	color      string
	noTree     bool
	watch      bool
	noColor    bool
	debug      bool
	jobs       int
	keepGoing  bool
}

// settings is the config file merged with the flags that were set.
type settings struct {
	format    astfmt.Format
	out       string
	pattern   string
	color     string
	jobs      int
	stopFirst bool
}

// NewRootCommand builds the mrecognize command tree writing to stdout and
// stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "mrecognize [files...]",
		Short: "Recognize MATLAB source files and dump their syntax trees",
		Long: `mrecognize lexes and parses MATLAB scripts, functions and classdef files,
prints every diagnostic as each file completes, and writes the syntax tree
of the whole batch when all files are clean.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, f, modeDump, stdout, stderr)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "Config file (default "+DefaultConfigFile+" if present)")
	pf.StringVar(&f.pattern, "pattern", "", "Glob of additional input files, e.g. 'src/*.m'")
	pf.StringVarP(&f.out, "out", "o", "-", "Write the tree to this file, - for stdout")
	pf.StringVarP(&f.format, "format", "f", "tree", "Tree format: tree, yaml, json or cbor")
	pf.StringVar(&f.color, "color", "auto", "Color mode: auto, always or never")
	pf.BoolVar(&f.noTree, "no-tree", false, "Print diagnostics only")
	pf.BoolVarP(&f.watch, "watch", "w", false, "Recognize files again whenever they change")
	pf.BoolVar(&f.noColor, "no-color", false, "Disable colored output")
	pf.BoolVar(&f.debug, "debug", false, "Trace attempts and print per-file statistics")
	pf.IntVarP(&f.jobs, "jobs", "j", 1, "Files recognized in parallel")
	pf.BoolVar(&f.keepGoing, "keep-going", false, "Report every error in a file instead of stopping at the first")

	root.AddCommand(
		&cobra.Command{
			Use:   "check [files...]",
			Short: "Report diagnostics without building trees",
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, args, f, modeCheck, stdout, stderr)
			},
		},
		&cobra.Command{
			Use:   "dump [files...]",
			Short: "Recognize files and write their trees (the default)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, args, f, modeDump, stdout, stderr)
			},
		},
	)
	return root
}

// Execute runs the command line and returns the process exit status.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := NewRootCommand(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errDiagnostics) {
			FormatError(os.Stderr, err, ShouldUseColor("auto", false, os.Stderr))
		}
		return 1
	}
	return 0
}

func resolve(cmd *cobra.Command, f *flags) (*settings, error) {
	cfg, _, err := LoadConfig(f.configPath)
	if err != nil {
		return nil, &CLIError{Type: "config", Message: "cannot load config", Cause: err}
	}

	changed := cmd.Flags().Changed
	if changed("format") {
		cfg.Format = f.format
	}
	if changed("out") {
		cfg.Out = f.out
	}
	if changed("pattern") {
		cfg.Pattern = f.pattern
	}
	if changed("color") {
		cfg.Color = f.color
	}
	if changed("jobs") {
		cfg.Parallelism = f.jobs
	}
	if changed("keep-going") {
		cfg.StopOnFirstError = !f.keepGoing
	}
	if f.noColor {
		cfg.Color = "never"
	}

	format, err := astfmt.ParseFormat(cfg.Format)
	if err != nil {
		return nil, &CLIError{Type: "usage", Message: "invalid --format", Cause: err}
	}
	if cfg.Parallelism < 1 {
		return nil, &CLIError{Type: "usage", Message: fmt.Sprintf("invalid --jobs %d", cfg.Parallelism), Hint: "use a value of 1 or more"}
	}
	return &settings{
		format:    format,
		out:       cfg.Out,
		pattern:   cfg.Pattern,
		color:     cfg.Color,
		jobs:      cfg.Parallelism,
		stopFirst: cfg.StopOnFirstError,
	}, nil
}

func inputs(args []string, pattern string) ([]string, error) {
	paths := append([]string(nil), args...)
	if pattern != "" {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, &CLIError{Type: "usage", Message: "invalid --pattern", Cause: err}
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return nil, &CLIError{Type: "input", Message: "no input files", Hint: "pass file paths or --pattern 'dir/*.m'"}
	}
	return paths, nil
}

func run(cmd *cobra.Command, args []string, f *flags, m mode, stdout, stderr io.Writer) error {
	s, err := resolve(cmd, f)
	if err != nil {
		return err
	}
	paths, err := inputs(args, s.pattern)
	if err != nil {
		return err
	}

	useColor := ShouldUseColor(s.color, false, asFile(stderr))
	logger := logging.FromEnv()
	if f.debug {
		logger = logging.New(stderr, slog.LevelDebug)
	}

	opts := []recognizer.Option{
		recognizer.WithLogger(logger),
		recognizer.WithStopOnFirstError(s.stopFirst),
		recognizer.WithParallelism(s.jobs),
	}
	if f.debug {
		opts = append(opts, recognizer.WithTelemetry())
	}
	buildTree := m == modeDump && !f.noTree

	notify := func(path string, diagnostics report.Reader) {
		DisplayDiagnostics(stderr, diagnostics, useColor)
	}
	result := recognizer.RecognizeFiles(paths, buildTree, notify, opts...)
	if f.debug {
		DisplayStats(stderr, result.Files, useColor)
	}
	DisplaySummary(stderr, len(paths), result.Report, useColor)

	if result.Value != nil {
		if err := writeTree(s, result.Value, stdout); err != nil {
			return err
		}
	}

	if f.watch {
		return watchFiles(cmd.Context(), paths, buildTree, s, opts, logger, stdout, stderr, useColor)
	}
	if !result.Report.IsOk() {
		return errDiagnostics
	}
	return nil
}

func watchFiles(ctx context.Context, paths []string, buildTree bool, s *settings, opts []recognizer.Option,
	logger *slog.Logger, stdout, stderr io.Writer, useColor bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	handler := func(path string, result recognizer.Result) {
		_, _ = fmt.Fprintf(stderr, "%s %s\n", Colorize("changed:", ColorCyan, useColor), path)
		DisplayDiagnostics(stderr, result.Report, useColor)
		DisplaySummary(stderr, 1, result.Report, useColor)
		if result.Value != nil {
			if err := writeTree(s, result.Value, stdout); err != nil {
				FormatError(stderr, err, useColor)
			}
		}
	}

	w, err := watch.New(paths, buildTree, handler,
		watch.WithLogger(logger),
		watch.WithRecognizerOptions(opts...))
	if err != nil {
		return &CLIError{Type: "input", Message: "cannot watch files", Cause: err}
	}
	_, _ = fmt.Fprintf(stderr, "watching %d file(s), press Ctrl-C to stop\n", len(paths))
	return w.Run(ctx)
}

// writeTree encodes unit to the configured output. The tree format is
// colored only on a terminal stdout.
func writeTree(s *settings, unit *ast.Node, stdout io.Writer) error {
	if s.out == "-" {
		if s.format == astfmt.Tree {
			return astfmt.FormatTree(stdout, unit, ShouldUseColor(s.color, false, asFile(stdout)))
		}
		return astfmt.Encode(stdout, unit, s.format)
	}

	file, err := os.Create(s.out)
	if err != nil {
		return &CLIError{Type: "output", Message: "cannot create output", Cause: err}
	}
	if err := astfmt.Encode(file, unit, s.format); err != nil {
		_ = file.Close()
		return &CLIError{Type: "output", Message: "cannot write tree", Cause: err}
	}
	if err := file.Close(); err != nil {
		return &CLIError{Type: "output", Message: "cannot write tree", Cause: err}
	}
	return nil
}

func asFile(w io.Writer) *os.File {
	f, _ := w.(*os.File)
	return f
}
