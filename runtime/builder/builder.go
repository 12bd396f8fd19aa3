// Package builder converts a concrete parse tree into the typed AST.
package builder

import (
	"github.com/aledsdavies/mrecognizer/core/ast"
	"github.com/aledsdavies/mrecognizer/core/invariant"
	"github.com/aledsdavies/mrecognizer/runtime/parser"
)

// kinds maps every concrete tag to its AST kind. It must stay total over
// parser.NodeKinds.
var kinds = map[parser.NodeKind]ast.Kind{
	parser.NodeClassFile:          ast.ClassFile,
	parser.NodeFunctionFile:       ast.FunctionFile,
	parser.NodeScriptFile:         ast.ScriptFile,
	parser.NodeFunction:           ast.Function,
	parser.NodeClassdef:           ast.Classdef,
	parser.NodeEventSection:       ast.EventSection,
	parser.NodePropertySection:    ast.PropertySection,
	parser.NodeMethodSection:      ast.MethodSection,
	parser.NodeEnumerationSection: ast.EnumerationSection,
	parser.NodeEvent:              ast.Event,
	parser.NodeProperty:           ast.Property,
	parser.NodeRegularMethod:      ast.RegularMethod,
	parser.NodeExternalMethod:     ast.ExternalMethod,
	parser.NodeEnumeration:        ast.Enumeration,
	parser.NodeAttribute:          ast.Attribute,
	parser.NodeAction:             ast.Action,
	parser.NodeAssign:             ast.Assign,
	parser.NodeExclamation:        ast.Exclamation,
	parser.NodeBreak:              ast.Break,
	parser.NodeContinue:           ast.Continue,
	parser.NodeFor:                ast.For,
	parser.NodeGlobal:             ast.Global,
	parser.NodeIfElse:             ast.IfElse,
	parser.NodeNestedFunction:     ast.NestedFunction,
	parser.NodeParfor:             ast.Parfor,
	parser.NodePersistent:         ast.Persistent,
	parser.NodeReturn:             ast.Return,
	parser.NodeSpmd:               ast.Spmd,
	parser.NodeSwitchCase:         ast.SwitchCase,
	parser.NodeTryCatch:           ast.TryCatch,
	parser.NodeWhile:              ast.While,
	parser.NodeIf:                 ast.If,
	parser.NodeElseIf:             ast.ElseIf,
	parser.NodeElse:               ast.Else,
	parser.NodeSwitch:             ast.Switch,
	parser.NodeCase:               ast.Case,
	parser.NodeOtherwise:          ast.Otherwise,
	parser.NodeTry:                ast.Try,
	parser.NodeCatch:              ast.Catch,
	parser.NodeColon:              ast.Colon,
	parser.NodeHCat:               ast.HCat,
	parser.NodeVCat:               ast.VCat,
	parser.NodePlus:               ast.Plus,
	parser.NodeMinus:              ast.Minus,
	parser.NodeTimes:              ast.Times,
	parser.NodeMTimes:             ast.MTimes,
	parser.NodeLDiv:               ast.LDiv,
	parser.NodeMLDiv:              ast.MLDiv,
	parser.NodeRDiv:               ast.RDiv,
	parser.NodeMRDiv:              ast.MRDiv,
	parser.NodePow:                ast.Pow,
	parser.NodeMPow:               ast.MPow,
	parser.NodeTrans:              ast.Trans,
	parser.NodeCTrans:             ast.CTrans,
	parser.NodeEq:                 ast.Eq,
	parser.NodeNotEq:              ast.NotEq,
	parser.NodeLt:                 ast.Lt,
	parser.NodeLtEq:               ast.LtEq,
	parser.NodeGt:                 ast.Gt,
	parser.NodeGtEq:               ast.GtEq,
	parser.NodeAnd:                ast.And,
	parser.NodeShortAnd:           ast.ShortAnd,
	parser.NodeOr:                 ast.Or,
	parser.NodeShortOr:            ast.ShortOr,
	parser.NodePositive:           ast.Positive,
	parser.NodeNegative:           ast.Negative,
	parser.NodeNot:                ast.Not,
	parser.NodeAll:                ast.All,
	parser.NodeEnd:                ast.End,
	parser.NodeImaginary:          ast.Imaginary,
	parser.NodeReal:               ast.Real,
	parser.NodeString:             ast.String,
	parser.NodeCellArray:          ast.CellArray,
	parser.NodeRegularArray:       ast.RegularArray,
	parser.NodeVar:                ast.Var,
	parser.NodeDotExpression:      ast.DotExpression,
	parser.NodeDotName:            ast.DotName,
	parser.NodeParenthesis:        ast.Parenthesis,
	parser.NodeCurlyBrace:         ast.CurlyBrace,
	parser.NodeAtBase:             ast.AtBase,
	parser.NodeAnonymousFunction:  ast.AnonymousFunction,
	parser.NodeFunctionHandle:     ast.FunctionHandle,
	parser.NodeQuestion:           ast.Question,
	parser.NodeStorage:            ast.Storage,
	parser.NodeInput:              ast.Input,
	parser.NodeOutput:             ast.Output,
	parser.NodePrint:              ast.Print,
	parser.NodeNoPrint:            ast.NoPrint,
	parser.NodeClassRef:           ast.ClassRef,
	parser.NodeFunctionRef:        ast.FunctionRef,
	parser.NodeID:                 ast.ID,
	parser.NodeName:               ast.Name,
}

// Kind returns the AST kind for a concrete tag.
func Kind(k parser.NodeKind) (ast.Kind, bool) {
	kind, ok := kinds[k]
	return kind, ok
}

// Build converts the file root of a successful parse into a mutable file
// node carrying path. Positions convert from 0-based character offsets to
// 1-based columns.
func Build(root *parser.Node, path string) *ast.Node {
	invariant.NotNil(root, "root")
	file := build(root)
	invariant.Postcondition(file.Kind().IsFile(), "parse root %s is not a file", root.Kind)
	file.SetPath(path)
	return file
}

func build(n *parser.Node) *ast.Node {
	kind, ok := kinds[n.Kind]
	invariant.Invariant(ok, "no AST kind for concrete node %s", n.Kind)

	node := ast.New(kind, ast.Position{Line: n.Line, Column: n.CharPos + 1}, n.Text)
	for _, c := range n.Children {
		node.AppendChild(build(c))
	}
	return node
}
