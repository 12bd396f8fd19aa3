package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aledsdavies/mrecognizer/runtime/recognizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type change struct {
	path   string
	result recognizer.Result
}

// waitFor reads changes until one satisfies ok.
func waitFor(t *testing.T, changes <-chan change, ok func(change) bool) change {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case c := <-changes:
			if ok(c) {
				return c
			}
		case <-timeout:
			t.Fatal("timed out waiting for a change")
		}
	}
}

func TestWatcherRecognizesChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.m")
	require.NoError(t, os.WriteFile(path, []byte("x = 1;\n"), 0o644))

	changes := make(chan change, 16)
	w, err := New([]string{path}, true, func(path string, result recognizer.Result) {
		changes <- change{path, result}
	}, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(path, []byte("x = $;\n"), 0o644))
	bad := waitFor(t, changes, func(c change) bool { return !c.result.Report.IsOk() })
	assert.Equal(t, path, bad.path)
	assert.Nil(t, bad.result.Value)

	require.NoError(t, os.WriteFile(path, []byte("hold on\n"), 0o644))
	good := waitFor(t, changes, func(c change) bool { return c.result.Report.IsOk() })
	require.NotNil(t, good.result.Value)
	assert.Equal(t, path, good.result.Value.Child(0).Path())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewErrors(t *testing.T) {
	_, err := New([]string{"a.m"}, true, nil)
	assert.Error(t, err)

	missing := filepath.Join(t.TempDir(), "gone", "a.m")
	_, err = New([]string{missing}, true, func(string, recognizer.Result) {})
	assert.Error(t, err)
}
