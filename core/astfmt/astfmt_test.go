package astfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aledsdavies/mrecognizer/core/ast"
	"github.com/google/go-cmp/cmp"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// sampleUnit builds the tree of "x = 1;" in demo.m.
func sampleUnit() *ast.Node {
	at := func(col int) ast.Position { return ast.Position{Line: 1, Column: col} }

	file := ast.New(ast.ScriptFile, at(1), "x")
	file.SetPath("demo.m")
	assign := ast.New(ast.Assign, at(3), "=")
	v := ast.New(ast.Var, at(1), "x")
	v.AppendChild(ast.New(ast.ID, at(1), "x"))
	assign.AppendChild(v)
	assign.AppendChild(ast.New(ast.Real, at(5), "1"))
	assign.AppendChild(ast.New(ast.NoPrint, at(6), ";"))
	file.AppendChild(assign)

	unit := ast.NewUnit()
	unit.AppendChild(file)
	unit.Freeze()
	return unit
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"tree", Tree, false},
		{"YAML", YAML, false},
		{"json", JSON, false},
		{"Cbor", CBOR, false},
		{"xml", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, strings.ToLower(tt.input), got.String())
		})
	}
}

func TestFormatTree(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleUnit(), Tree))

	want := `Unit
└─ ScriptFile [1:1] "x" demo.m
   └─ Assign [1:3] "="
      ├─ Var [1:1] "x"
      │  └─ ID [1:1] "x"
      ├─ Real [1:5] "1"
      └─ NoPrint [1:6] ";"
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatTreeColor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatTree(&buf, sampleUnit(), true))
	assert.Contains(t, buf.String(), ColorBlue+"Assign"+ColorReset)
}

func TestDocumentEncodings(t *testing.T) {
	unit := sampleUnit()
	want := ToDocument(unit)

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, unit, YAML))
		var got Document
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("yaml mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, unit, JSON))
		assert.Contains(t, buf.String(), `"path": "demo.m"`)
		var got Document
		require.NoError(t, jsoniter.Unmarshal(buf.Bytes(), &got))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("json mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("cbor", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, unit, CBOR))
		got, err := UnmarshalCBOR(buf.Bytes())
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("cbor mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestCBORIsDeterministic(t *testing.T) {
	first, err := MarshalCBOR(sampleUnit())
	require.NoError(t, err)
	second, err := MarshalCBOR(sampleUnit())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncodeNilTree(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Encode(&buf, nil, JSON))
	assert.Error(t, Encode(&buf, sampleUnit(), Format(42)))
}
