package ast

import "fmt"

// Kind is the tag of an AST node. Each kind has a fixed child shape:
// file kinds own declarations and statements, statement kinds own their
// clauses, and expression kinds own their operands. Leaves (ID, Name,
// ClassRef, FunctionRef, literals, All, End, Print, NoPrint) carry Text.
//
// New kinds go at the END, before kindCount.
type Kind uint32

const (
	// Unit owns every recognized file.
	Unit Kind = iota

	// Files
	ClassFile
	FunctionFile
	ScriptFile

	// Declarations
	Function
	Classdef
	EventSection
	PropertySection
	MethodSection
	EnumerationSection
	Event
	Property
	RegularMethod
	ExternalMethod
	Enumeration
	Attribute

	// Statements
	Action // Expression or command statement
	Assign
	Exclamation // Shell escape: !cmd
	Break
	Continue
	For
	Global
	IfElse
	NestedFunction
	Parfor
	Persistent
	Return
	Spmd
	SwitchCase
	TryCatch
	While

	// Statement parts
	If
	ElseIf
	Else
	Switch
	Case
	Otherwise
	Try
	Catch

	// Operators
	Colon // Range a:b or a:b:c
	HCat  // Row of an array or cell literal
	VCat  // Rows of an array or cell literal
	Plus
	Minus
	Times
	MTimes
	LDiv
	MLDiv
	RDiv
	MRDiv
	Pow
	MPow
	Trans
	CTrans
	Eq
	NotEq
	Lt
	LtEq
	Gt
	GtEq
	And
	ShortAnd
	Or
	ShortOr
	Positive
	Negative
	Not

	// Primaries
	All // Bare : inside a subscript
	End // end inside a subscript
	Imaginary
	Real
	String
	CellArray
	RegularArray
	Var // Identifier with its postfix chain
	DotExpression
	DotName
	Parenthesis
	CurlyBrace
	AtBase
	AnonymousFunction
	FunctionHandle
	Question // Metaclass query: ?Name
	Storage  // [a, b] assignment targets

	// Leaves and markers
	Input
	Output
	Print
	NoPrint
	ClassRef
	FunctionRef
	ID
	Name



	kindCount
)

var kindNames = [kindCount]string{
	Unit:                "Unit",
	ClassFile:           "ClassFile",
	FunctionFile:        "FunctionFile",
	ScriptFile:          "ScriptFile",
	Function:            "Function",
	Classdef:            "Classdef",
	EventSection:        "EventSection",
	PropertySection:     "PropertySection",
	MethodSection:       "MethodSection",
	EnumerationSection:  "EnumerationSection",
	Event:               "Event",
	Property:            "Property",
	RegularMethod:       "RegularMethod",
	ExternalMethod:      "ExternalMethod",
	Enumeration:         "Enumeration",
	Attribute:           "Attribute",
	Action:              "Action",
	Assign:              "Assign",
	Exclamation:         "Exclamation",
	Break:               "Break",
	Continue:            "Continue",
	For:                 "For",
	Global:              "Global",
	IfElse:              "IfElse",
	NestedFunction:      "NestedFunction",
	Parfor:              "Parfor",
	Persistent:          "Persistent",
	Return:              "Return",
	Spmd:                "Spmd",
	SwitchCase:          "SwitchCase",
	TryCatch:            "TryCatch",
	While:               "While",
	If:                  "If",
	ElseIf:              "ElseIf",
	Else:                "Else",
	Switch:              "Switch",
	Case:                "Case",
	Otherwise:           "Otherwise",
	Try:                 "Try",
	Catch:               "Catch",
	Colon:               "Colon",
	HCat:                "HCat",
	VCat:                "VCat",
	Plus:                "Plus",
	Minus:               "Minus",
	Times:               "Times",
	MTimes:              "MTimes",
	LDiv:                "LDiv",
	MLDiv:               "MLDiv",
	RDiv:                "RDiv",
	MRDiv:               "MRDiv",
	Pow:                 "Pow",
	MPow:                "MPow",
	Trans:               "Trans",
	CTrans:              "CTrans",
	Eq:                  "Eq",
	NotEq:               "NotEq",
	Lt:                  "Lt",
	LtEq:                "LtEq",
	Gt:                  "Gt",
	GtEq:                "GtEq",
	And:                 "And",
	ShortAnd:            "ShortAnd",
	Or:                  "Or",
	ShortOr:             "ShortOr",
	Positive:            "Positive",
	Negative:            "Negative",
	Not:                 "Not",
	All:                 "All",
	End:                 "End",
	Imaginary:           "Imaginary",
	Real:                "Real",
	String:              "String",
	CellArray:           "CellArray",
	RegularArray:        "RegularArray",
	Var:                 "Var",
	DotExpression:       "DotExpression",
	DotName:             "DotName",
	Parenthesis:         "Parenthesis",
	CurlyBrace:          "CurlyBrace",
	AtBase:              "AtBase",
	AnonymousFunction:   "AnonymousFunction",
	FunctionHandle:      "FunctionHandle",
	Question:            "Question",
	Storage:             "Storage",
	Input:               "Input",
	Output:              "Output",
	Print:               "Print",
	NoPrint:             "NoPrint",
	ClassRef:            "ClassRef",
	FunctionRef:         "FunctionRef",
	ID:                  "ID",
	Name:                "Name",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint32(k))
}

// IsFile reports whether k is one of the three file kinds.
func (k Kind) IsFile() bool {
	return k == ClassFile || k == FunctionFile || k == ScriptFile
}

// ParseKind returns the kind named s.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return 0, false
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, kindCount)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}
