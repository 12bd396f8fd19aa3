package recognizer

import (
	"strings"
	"testing"

	"github.com/aledsdavies/mrecognizer/core/ast"
)

func FuzzRecognizeText(f *testing.F) {
	f.Add("x = 1;\n")
	f.Add("hold on\nformat long g\n")
	f.Add("function y = f(x)\ny = x';\nend\n")
	f.Add("classdef (Sealed) P < handle & matlab.mixin.Copyable\nproperties\nx = 1\nend\nend\n")
	f.Add("a = [1 -2 ; 3 - 4]{1}(2).b.(c);\n")
	f.Add("if x, y, elseif z, w, else, v, end\n")
	f.Add("try\n  error('x')\ncatch e\n  disp e\nend\n")
	f.Add("f = @(x) x.^2 + @sin;\n")
	f.Add("!echo hi\n%{\nc\n%}\n")
	f.Add("x = 'unterminated\n")
	f.Add(strings.Repeat("(", 200))
	f.Add("\x1a")

	f.Fuzz(func(t *testing.T, text string) {
		result := RecognizeText(text, true, WithMaxAttempts(64))

		if result.Report.IsOk() != (result.Value != nil) {
			t.Fatalf("ok=%v but value present=%v: %v",
				result.Report.IsOk(), result.Value != nil, result.Report.Messages())
		}
		if result.Value == nil {
			return
		}
		ast.Walk(result.Value, func(n *ast.Node) bool {
			if !n.IsFrozen() {
				t.Fatalf("%s is not frozen", n.Kind())
			}
			if n.Kind() != ast.Unit && n.Line() < 1 {
				t.Fatalf("%s has line %d", n.Kind(), n.Line())
			}
			return true
		})
	})
}
