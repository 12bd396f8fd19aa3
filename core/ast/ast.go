// Package ast defines the typed, freezable syntax tree produced by the
// recognizer.
//
// A tree is built mutable, node by node, and then frozen from its root.
// Frozen trees are immutable and safe for concurrent read-only traversal.
package ast

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/mrecognizer/core/invariant"
)

// Position is a 1-based source location. Line is 0 when unknown.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is one node of the closed AST hierarchy. Its Kind selects which
// children it has; see the Kind constants.
type Node struct {
	kind     Kind
	pos      Position
	text     string
	path     string // file nodes only
	children []*Node
	parent   *Node // back-pointer for traversal, never owning
	frozen   bool
}

// New returns a mutable node.
func New(kind Kind, pos Position, text string) *Node {
	invariant.Precondition(kind < kindCount, "unknown node kind %d", uint32(kind))
	return &Node{kind: kind, pos: pos, text: text}
}

// NewUnit returns an empty Unit, the root that owns file nodes.
func NewUnit() *Node {
	return New(Unit, Position{}, "")
}

func (n *Node) Kind() Kind         { return n.kind }
func (n *Node) Position() Position { return n.pos }
func (n *Node) Line() int          { return n.pos.Line }
func (n *Node) Column() int        { return n.pos.Column }
func (n *Node) Text() string       { return n.text }
func (n *Node) Path() string       { return n.path }
func (n *Node) Parent() *Node      { return n.parent }
func (n *Node) IsFrozen() bool     { return n.frozen }

// Len returns the number of children.
func (n *Node) Len() int {
	return len(n.children)
}

// Child returns the i-th child.
func (n *Node) Child(i int) *Node {
	invariant.Precondition(i >= 0 && i < len(n.children), "child %d of %s out of range [0,%d)", i, n.kind, len(n.children))
	return n.children[i]
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// AppendChild makes child the last child of n. child must not have a parent.
func (n *Node) AppendChild(child *Node) {
	n.mustBeMutable("append child")
	invariant.NotNil(child, "child")
	invariant.Precondition(child.parent == nil, "%s already has a parent", child.kind)
	invariant.Precondition(child != n, "%s cannot be its own child", n.kind)
	child.parent = n
	n.children = append(n.children, child)
}

// SetText replaces the raw text.
func (n *Node) SetText(text string) {
	n.mustBeMutable("set text")
	n.text = text
}

// SetPath attaches the source path. Only file nodes carry one.
func (n *Node) SetPath(path string) {
	n.mustBeMutable("set path")
	invariant.Precondition(n.kind.IsFile(), "path on %s, which is not a file", n.kind)
	n.path = path
}

func (n *Node) mustBeMutable(op string) {
	invariant.Invariant(!n.frozen, "%s on frozen %s node", op, n.kind)
}

// Freeze makes n and its whole subtree immutable. Child lists are clipped
// so no append can reach a frozen backing array.
func (n *Node) Freeze() {
	Walk(n, func(m *Node) bool {
		m.children = m.children[:len(m.children):len(m.children)]
		m.frozen = true
		return true
	})
}

// Walk visits n and its descendants depth-first in source order. Returning
// false from fn skips the children of that node.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.children {
		Walk(c, fn)
	}
}

// String renders the subtree as an s-expression of kinds.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if len(n.children) == 0 {
		b.WriteString(n.kind.String())
		return
	}
	b.WriteByte('(')
	b.WriteString(n.kind.String())
	for _, c := range n.children {
		b.WriteByte(' ')
		c.write(b)
	}
	b.WriteByte(')')
}
