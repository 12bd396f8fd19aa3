package builder

import (
	"testing"

	"github.com/aledsdavies/mrecognizer/core/ast"
	"github.com/aledsdavies/mrecognizer/core/invariant"
	"github.com/aledsdavies/mrecognizer/runtime/lexer"
	"github.com/aledsdavies/mrecognizer/runtime/parser"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOK(t *testing.T, source string) *parser.Node {
	t.Helper()
	marker := lexer.NewCommandMarker()
	for attempt := 0; attempt < 16; attempt++ {
		tree := parser.Parse(source, marker)
		if tree.Outcome == parser.OutcomeCommandRetry {
			continue
		}
		require.Equal(t, parser.OutcomeSuccess, tree.Outcome, "errors: %v", tree.Errors)
		return tree.Root
	}
	t.Fatalf("%q: command retries did not converge", source)
	return nil
}

func TestKindTableIsTotal(t *testing.T) {
	seen := map[ast.Kind]parser.NodeKind{}
	for _, k := range parser.NodeKinds() {
		kind, ok := Kind(k)
		if !assert.True(t, ok, "concrete kind %s has no AST kind", k) {
			continue
		}
		if prev, dup := seen[kind]; dup {
			t.Errorf("%s and %s both map to %s", prev, k, kind)
		}
		seen[kind] = k
		assert.Equal(t, k.String(), kind.String(), "names drifted apart")
	}
	assert.Len(t, kinds, len(parser.NodeKinds()))
}

func TestBuildShape(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"script", "x = 1;\ny = x' + [1 2];\n"},
		{"function file", "function y = f(x)\ny = x;\nend\n"},
		{"classdef", "classdef P < handle\nproperties\nx = 1;\nend\nmethods\nfunction v = get(o)\nv = o.x;\nend\nend\nend\n"},
		{"command", "hold on\n"},
		{"control flow", "if a\nb;\nelseif c\nd;\nelse\ne;\nend\nfor i = 1:3\nbreak;\nend\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := parseOK(t, tt.input)
			file := Build(root, "f.m")

			if diff := cmp.Diff(root.String(), file.String()); diff != "" {
				t.Errorf("shape mismatch (-concrete +ast):\n%s", diff)
			}
			assert.Equal(t, "f.m", file.Path())
			assert.False(t, file.IsFrozen())
		})
	}
}

// Every AST node keeps the line of its concrete node and a column one past
// its character position.
func TestBuildPositions(t *testing.T) {
	source := "x = 1;\n  if x > 0\n    disp(x)\n  end\n"
	root := parseOK(t, source)
	file := Build(root, "pos.m")

	var concrete []*parser.Node
	var walk func(n *parser.Node)
	walk = func(n *parser.Node) {
		concrete = append(concrete, n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)

	var built []*ast.Node
	ast.Walk(file, func(n *ast.Node) bool {
		built = append(built, n)
		return true
	})

	require.Len(t, built, len(concrete))
	for i := range concrete {
		assert.Equal(t, concrete[i].Line, built[i].Line(), "node %d (%s) line", i, concrete[i].Kind)
		assert.Equal(t, concrete[i].CharPos+1, built[i].Column(), "node %d (%s) column", i, concrete[i].Kind)
		assert.Equal(t, concrete[i].Text, built[i].Text(), "node %d (%s) text", i, concrete[i].Kind)
		if i > 0 {
			assert.Empty(t, built[i].Path(), "only the file node carries a path")
		}
	}
}

func TestBuildUnknownKind(t *testing.T) {
	bogus := &parser.Node{Kind: parser.NodeKind(1 << 20)}
	defer func() {
		v, ok := invariant.AsViolation(recover())
		require.True(t, ok)
		assert.Contains(t, v.Message, "no AST kind")
	}()
	build(bogus)
}
