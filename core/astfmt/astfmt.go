// Package astfmt writes recognized trees as an indented outline or as
// YAML, JSON or canonical CBOR documents.
package astfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/aledsdavies/mrecognizer/core/ast"
	"github.com/fxamacker/cbor/v2"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

// Format selects an encoding.
type Format int

const (
	Tree Format = iota
	YAML
	JSON
	CBOR
)

var formatNames = [...]string{
	Tree: "tree",
	YAML: "yaml",
	JSON: "json",
	CBOR: "cbor",
}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat accepts a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	for i, name := range formatNames {
		if strings.EqualFold(s, name) {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("unknown format %q (want one of %s)", s, strings.Join(formatNames[:], ", "))
}

// Document is the serialized form of a node.
type Document struct {
	Kind     string     `json:"kind" yaml:"kind" cbor:"kind"`
	Line     int        `json:"line" yaml:"line" cbor:"line"`
	Column   int        `json:"column" yaml:"column" cbor:"column"`
	Text     string     `json:"text,omitempty" yaml:"text,omitempty" cbor:"text,omitempty"`
	Path     string     `json:"path,omitempty" yaml:"path,omitempty" cbor:"path,omitempty"`
	Children []Document `json:"children,omitempty" yaml:"children,omitempty" cbor:"children,omitempty"`
}

// ToDocument converts n and its subtree.
func ToDocument(n *ast.Node) Document {
	doc := Document{
		Kind:   n.Kind().String(),
		Line:   n.Line(),
		Column: n.Column(),
		Text:   n.Text(),
		Path:   n.Path(),
	}
	for _, c := range n.Children() {
		doc.Children = append(doc.Children, ToDocument(c))
	}
	return doc
}

// Encode writes n to w in format.
func Encode(w io.Writer, n *ast.Node, format Format) error {
	if n == nil {
		return fmt.Errorf("encode %s: no tree", format)
	}

	switch format {
	case Tree:
		return FormatTree(w, n, false)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ToDocument(n)); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case JSON:
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ToDocument(n)); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case CBOR:
		data, err := MarshalCBOR(n)
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write cbor: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %s", format)
	}
}

// MarshalCBOR returns the canonical CBOR encoding of n. Equal trees always
// encode to equal bytes.
func MarshalCBOR(n *ast.Node) ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("cbor mode: %w", err)
	}
	data, err := encMode.Marshal(ToDocument(n))
	if err != nil {
		return nil, fmt.Errorf("encode cbor: %w", err)
	}
	return data, nil
}

// UnmarshalCBOR decodes a document written by MarshalCBOR.
func UnmarshalCBOR(data []byte) (Document, error) {
	var doc Document
	if err := cbor.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode cbor: %w", err)
	}
	return doc, nil
}
