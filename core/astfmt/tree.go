package astfmt

import (
	"fmt"
	"io"
	"strconv"

	"github.com/aledsdavies/mrecognizer/core/ast"
)

// ANSI color codes
const (
	ColorReset = "\033[0m"
	ColorBlue  = "\033[34m"
	ColorGray  = "\033[90m"
	ColorGreen = "\033[32m"
)

// Colorize wraps text in ANSI color codes if color is enabled
func Colorize(text, color string, useColor bool) string {
	if !useColor {
		return text
	}
	return color + text + ColorReset
}

// FormatTree renders n as an outline, one node per line:
//
//	Unit
//	└─ ScriptFile [1:1] "x" demo.m
//	   └─ Assign [1:3] "="
func FormatTree(w io.Writer, n *ast.Node, useColor bool) error {
	if _, err := fmt.Fprintln(w, renderNode(n, useColor)); err != nil {
		return err
	}
	return renderChildren(w, n, "", useColor)
}

func renderChildren(w io.Writer, n *ast.Node, indent string, useColor bool) error {
	for i := 0; i < n.Len(); i++ {
		child := n.Child(i)
		prefix, next := "├─ ", "│  "
		if i == n.Len()-1 {
			prefix, next = "└─ ", "   "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", indent, prefix, renderNode(child, useColor)); err != nil {
			return err
		}
		if err := renderChildren(w, child, indent+next, useColor); err != nil {
			return err
		}
	}
	return nil
}

func renderNode(n *ast.Node, useColor bool) string {
	s := Colorize(n.Kind().String(), ColorBlue, useColor)
	if n.Kind() == ast.Unit {
		return s
	}
	s += " " + Colorize(fmt.Sprintf("[%d:%d]", n.Line(), n.Column()), ColorGray, useColor)
	if n.Text() != "" {
		s += " " + Colorize(strconv.Quote(n.Text()), ColorGreen, useColor)
	}
	if n.Path() != "" {
		s += " " + n.Path()
	}
	return s
}
