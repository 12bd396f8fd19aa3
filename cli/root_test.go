package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aledsdavies/mrecognizer/core/astfmt"
	"github.com/aledsdavies/mrecognizer/core/report"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the command tree in a scratch working directory.
func runCLI(t *testing.T, dir string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Chdir(dir)
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(&out, &errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644))
	}
	return dir
}

func TestDumpTree(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.m": "x = 1;\n"})

	stdout, stderr, err := runCLI(t, dir, "a.m")
	require.NoError(t, err)

	want := `Unit
└─ ScriptFile [1:1] "x" a.m
`
	assert.True(t, strings.HasPrefix(stdout, want), "stdout:\n%s", stdout)
	assert.Contains(t, stdout, `Assign [1:3] "="`)
	assert.Contains(t, stderr, "ok: 1 file(s), 0 error(s), 0 warning(s)")
}

func TestDiagnosticsAndExitStatus(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.m": "x = 1;\n",
		"b.m": "y = $;\n",
	})

	stdout, stderr, err := runCLI(t, dir, "a.m", "b.m")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errDiagnostics))
	assert.Empty(t, stdout, "no tree when any file fails")
	assert.Contains(t, stderr,
		"[Error] b.m Line: [1] Column: [5] Text: [LEXER - no viable alternative at character '$']")
	assert.Contains(t, stderr, "failed: 2 file(s), 1 error(s)")
}

func TestCheckWritesNoTree(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.m": "hold on\n"})

	stdout, stderr, err := runCLI(t, dir, "check", "a.m")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "ok: 1 file(s)")
}

func TestNoTreeFlag(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.m": "x\n"})

	stdout, _, err := runCLI(t, dir, "--no-tree", "a.m")
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestJSONToFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.m": "x = 1;\n", "b.m": "function f\nend\n"})

	_, _, err := runCLI(t, dir, "--format", "json", "--out", "tree.json", "--jobs", "2", "a.m", "b.m")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "tree.json"))
	require.NoError(t, err)
	var doc astfmt.Document
	require.NoError(t, jsoniter.Unmarshal(data, &doc))
	assert.Equal(t, "Unit", doc.Kind)
	require.Len(t, doc.Children, 2)
	assert.Equal(t, "a.m", doc.Children[0].Path)
	assert.Equal(t, "FunctionFile", doc.Children[1].Kind)
}

func TestPatternAndConfig(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.m":             "x = 1;\n",
		"b.m":             "y = 2;\n",
		DefaultConfigFile: "format: yaml\npattern: \"*.m\"\n",
	})

	stdout, stderr, err := runCLI(t, dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "kind: Unit")
	assert.Contains(t, stderr, "ok: 2 file(s)")

	// Flags win over the file.
	stdout, _, err = runCLI(t, dir, "--format", "tree")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "Unit\n"))
}

func TestUsageErrors(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.m": "x\n"})

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no inputs", nil, "no input files"},
		{"bad format", []string{"--format", "xml", "a.m"}, "invalid --format"},
		{"bad jobs", []string{"--jobs", "0", "a.m"}, "invalid --jobs 0"},
		{"bad pattern", []string{"--pattern", "[", "a.m"}, "invalid --pattern"},
		{"missing config", []string{"--config", "nope.yaml", "a.m"}, "cannot load config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, dir, tt.args...)
			require.Error(t, err)
			var cliErr *CLIError
			require.True(t, errors.As(err, &cliErr), "got %T", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestUnreadableInput(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.m": "x\n"})

	_, stderr, err := runCLI(t, dir, "a.m", "missing.m")
	assert.True(t, errors.Is(err, errDiagnostics))
	assert.Contains(t, stderr, "[Error] missing.m Line: [0] Column: [0] Text: [cannot read file")
}

func TestDisplayDiagnostics(t *testing.T) {
	r := report.New()
	r.AddWarning("w.m", 2, 3, "careful")
	r.AddError("e.m", 4, 5, "PARSER - missing end")

	var plain bytes.Buffer
	DisplayDiagnostics(&plain, r.ReadOnly(), false)
	assert.Equal(t,
		"[Warning] w.m Line: [2] Column: [3] Text: [careful]\n"+
			"[Error] e.m Line: [4] Column: [5] Text: [PARSER - missing end]\n",
		plain.String())

	var colored bytes.Buffer
	DisplayDiagnostics(&colored, r.ReadOnly(), true)
	assert.Contains(t, colored.String(), ColorRed+"[Error]"+ColorReset)
}

func TestFormatError(t *testing.T) {
	var buf bytes.Buffer
	FormatError(&buf, &CLIError{Type: "input", Message: "no input files", Hint: "pass files"}, false)
	assert.Equal(t, "Error: no input files\nHint: pass files\n", buf.String())

	buf.Reset()
	cause := errors.New("boom")
	err := &CLIError{Type: "output", Message: "cannot write tree", Cause: cause}
	FormatError(&buf, err, false)
	assert.Equal(t, "Error: cannot write tree: boom\n", buf.String())
	assert.True(t, errors.Is(err, cause))

	buf.Reset()
	FormatError(&buf, nil, false)
	assert.Empty(t, buf.String())
}

func TestShouldUseColor(t *testing.T) {
	assert.False(t, ShouldUseColor("always", true, nil))
	assert.True(t, ShouldUseColor("always", false, nil))
	assert.False(t, ShouldUseColor("never", false, os.Stdout))
	assert.False(t, ShouldUseColor("auto", false, nil))
}
