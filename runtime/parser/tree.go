package parser

import (
	"fmt"

	"github.com/aledsdavies/mrecognizer/runtime/lexer"
)

// ParseTree represents the result of one parse attempt
type ParseTree struct {
	Source    string          // Normalized source the attempt ran on
	Tokens    []lexer.Token   // Tokens from lexer, all channels
	Root      *Node           // Concrete tree, nil unless Outcome is OutcomeSuccess
	Errors    []ParseError    // Lexical and syntactic errors, in order found
	Outcome   Outcome         // How the attempt ended
	Telemetry *ParseTelemetry // Performance metrics (nil if disabled)
}

// Outcome is the signal an attempt returns to the retry driver.
type Outcome int

const (
	OutcomeSuccess      Outcome = iota // Parsed to EOF without errors
	OutcomeError                       // Errors recorded, stop-on-first-error disabled
	OutcomeStop                        // First error recorded, attempt cut short
	OutcomeCommandRetry                // Command syntax detected, marker grew, reparse
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "Success"
	case OutcomeError:
		return "Error"
	case OutcomeStop:
		return "Stop"
	case OutcomeCommandRetry:
		return "CommandRetry"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// NodeKind is the grammar-rule tag of a concrete node.
//
// IMPORTANT: When adding new node kinds, ALWAYS add them at the END of the enum
// (before nodeKindCount) and give them a name and an AST mapping; the builder's
// exhaustiveness test fails otherwise.
type NodeKind uint32

const (
	// Files
	NodeClassFile NodeKind = iota
	NodeFunctionFile
	NodeScriptFile

	// Declarations
	NodeFunction
	NodeClassdef
	NodeEventSection
	NodePropertySection
	NodeMethodSection
	NodeEnumerationSection
	NodeEvent
	NodeProperty
	NodeRegularMethod
	NodeExternalMethod
	NodeEnumeration
	NodeAttribute

	// Statements
	NodeAction // Expression or command statement
	NodeAssign
	NodeExclamation // Shell escape: !cmd
	NodeBreak
	NodeContinue
	NodeFor
	NodeGlobal
	NodeIfElse
	NodeNestedFunction
	NodeParfor
	NodePersistent
	NodeReturn
	NodeSpmd
	NodeSwitchCase
	NodeTryCatch
	NodeWhile

	// Statement parts
	NodeIf
	NodeElseIf
	NodeElse
	NodeSwitch
	NodeCase
	NodeOtherwise
	NodeTry
	NodeCatch

	// Operators
	NodeColon // Range a:b or a:b:c
	NodeHCat  // Row of an array or cell literal
	NodeVCat  // Rows of an array or cell literal
	NodePlus
	NodeMinus
	NodeTimes
	NodeMTimes
	NodeLDiv
	NodeMLDiv
	NodeRDiv
	NodeMRDiv
	NodePow
	NodeMPow
	NodeTrans
	NodeCTrans
	NodeEq
	NodeNotEq
	NodeLt
	NodeLtEq
	NodeGt
	NodeGtEq
	NodeAnd
	NodeShortAnd
	NodeOr
	NodeShortOr
	NodePositive
	NodeNegative
	NodeNot

	// Primaries
	NodeAll // Bare : inside a subscript
	NodeEnd // end inside a subscript
	NodeImaginary
	NodeReal
	NodeString
	NodeCellArray
	NodeRegularArray
	NodeVar // Identifier with its postfix chain
	NodeDotExpression
	NodeDotName
	NodeParenthesis
	NodeCurlyBrace
	NodeAtBase
	NodeAnonymousFunction
	NodeFunctionHandle
	NodeQuestion // Metaclass query: ?Name
	NodeStorage  // [a, b] assignment targets

	// Leaves and markers
	NodeInput
	NodeOutput
	NodePrint
	NodeNoPrint
	NodeClassRef
	NodeFunctionRef
	NodeID
	NodeName

	nodeKindCount
)

var nodeKindNames = [...]string{
	NodeClassFile:          "ClassFile",
	NodeFunctionFile:       "FunctionFile",
	NodeScriptFile:         "ScriptFile",
	NodeFunction:           "Function",
	NodeClassdef:           "Classdef",
	NodeEventSection:       "EventSection",
	NodePropertySection:    "PropertySection",
	NodeMethodSection:      "MethodSection",
	NodeEnumerationSection: "EnumerationSection",
	NodeEvent:              "Event",
	NodeProperty:           "Property",
	NodeRegularMethod:      "RegularMethod",
	NodeExternalMethod:     "ExternalMethod",
	NodeEnumeration:        "Enumeration",
	NodeAttribute:          "Attribute",
	NodeAction:             "Action",
	NodeAssign:             "Assign",
	NodeExclamation:        "Exclamation",
	NodeBreak:              "Break",
	NodeContinue:           "Continue",
	NodeFor:                "For",
	NodeGlobal:             "Global",
	NodeIfElse:             "IfElse",
	NodeNestedFunction:     "NestedFunction",
	NodeParfor:             "Parfor",
	NodePersistent:         "Persistent",
	NodeReturn:             "Return",
	NodeSpmd:               "Spmd",
	NodeSwitchCase:         "SwitchCase",
	NodeTryCatch:           "TryCatch",
	NodeWhile:              "While",
	NodeIf:                 "If",
	NodeElseIf:             "ElseIf",
	NodeElse:               "Else",
	NodeSwitch:             "Switch",
	NodeCase:               "Case",
	NodeOtherwise:          "Otherwise",
	NodeTry:                "Try",
	NodeCatch:              "Catch",
	NodeColon:              "Colon",
	NodeHCat:               "HCat",
	NodeVCat:               "VCat",
	NodePlus:               "Plus",
	NodeMinus:              "Minus",
	NodeTimes:              "Times",
	NodeMTimes:             "MTimes",
	NodeLDiv:               "LDiv",
	NodeMLDiv:              "MLDiv",
	NodeRDiv:               "RDiv",
	NodeMRDiv:              "MRDiv",
	NodePow:                "Pow",
	NodeMPow:               "MPow",
	NodeTrans:              "Trans",
	NodeCTrans:             "CTrans",
	NodeEq:                 "Eq",
	NodeNotEq:              "NotEq",
	NodeLt:                 "Lt",
	NodeLtEq:               "LtEq",
	NodeGt:                 "Gt",
	NodeGtEq:               "GtEq",
	NodeAnd:                "And",
	NodeShortAnd:           "ShortAnd",
	NodeOr:                 "Or",
	NodeShortOr:            "ShortOr",
	NodePositive:           "Positive",
	NodeNegative:           "Negative",
	NodeNot:                "Not",
	NodeAll:                "All",
	NodeEnd:                "End",
	NodeImaginary:          "Imaginary",
	NodeReal:               "Real",
	NodeString:             "String",
	NodeCellArray:          "CellArray",
	NodeRegularArray:       "RegularArray",
	NodeVar:                "Var",
	NodeDotExpression:      "DotExpression",
	NodeDotName:            "DotName",
	NodeParenthesis:        "Parenthesis",
	NodeCurlyBrace:         "CurlyBrace",
	NodeAtBase:             "AtBase",
	NodeAnonymousFunction:  "AnonymousFunction",
	NodeFunctionHandle:     "FunctionHandle",
	NodeQuestion:           "Question",
	NodeStorage:            "Storage",
	NodeInput:              "Input",
	NodeOutput:             "Output",
	NodePrint:              "Print",
	NodeNoPrint:            "NoPrint",
	NodeClassRef:           "ClassRef",
	NodeFunctionRef:        "FunctionRef",
	NodeID:                 "ID",
	NodeName:               "Name",
}

func (k NodeKind) String() string {
	if k < nodeKindCount {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", uint32(k))
}

// NodeKinds returns every grammar-rule tag, in declaration order.
func NodeKinds() []NodeKind {
	kinds := make([]NodeKind, nodeKindCount)
	for i := range kinds {
		kinds[i] = NodeKind(i)
	}
	return kinds
}

// Node is one concrete parse node. Line is 1-based; CharPos is the 0-based
// character position in the line of the node's anchor token.
type Node struct {
	Kind     NodeKind
	Line     int
	CharPos  int
	Text     string
	Children []*Node
}

// newNode anchors a node of kind at tok.
func newNode(kind NodeKind, tok lexer.Token, children ...*Node) *Node {
	n := &Node{
		Kind:    kind,
		Line:    tok.Position.Line,
		CharPos: tok.CharPositionInLine(),
		Text:    tok.Text,
	}
	n.add(children...)
	return n
}

// add appends the non-nil children.
func (n *Node) add(children ...*Node) {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
}

// String renders the subtree as a compact s-expression, for tests and debug output.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if len(n.Children) == 0 {
		return n.Kind.String()
	}
	s := "(" + n.Kind.String()
	for _, c := range n.Children {
		s += " " + c.String()
	}
	return s + ")"
}
