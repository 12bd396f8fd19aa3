package report

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestSeverityAggregation(t *testing.T) {
	tests := []struct {
		name     string
		add      []Severity
		expected Severity
		ok       bool
	}{
		{"empty", nil, Info, true},
		{"info_only", []Severity{Info, Info}, Info, true},
		{"warning_wins_over_info", []Severity{Info, Warning}, Warning, true},
		{"error_wins", []Severity{Warning, Error, Info}, Error, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			for _, s := range tt.add {
				r.Add(s, "f.m", 1, 1, "msg")
			}
			assert.Equal(t, tt.expected, r.Severity())
			assert.Equal(t, tt.ok, r.IsOk())
			assert.Equal(t, len(tt.add), r.Len())
		})
	}
}

func TestAddRangePreservesOrder(t *testing.T) {
	a := New()
	a.AddInfo("a.m", 1, 2, "first")
	b := New()
	b.AddError("b.m", 3, 4, "second")
	b.AddWarning("b.m", 5, 6, "third")

	a.AddRange(b.ReadOnly())
	a.AddRange(nil)

	expected := []Message{
		{Severity: Info, Path: "a.m", Line: 1, Column: 2, Text: "first"},
		{Severity: Error, Path: "b.m", Line: 3, Column: 4, Text: "second"},
		{Severity: Warning, Path: "b.m", Line: 5, Column: 6, Text: "third"},
	}
	if diff := cmp.Diff(expected, a.Messages()); diff != "" {
		t.Errorf("messages mismatch (-expected +actual):\n%s", diff)
	}
	assert.Equal(t, 1, a.Count(Error))
	assert.Equal(t, 1, a.Count(Warning))
	assert.Equal(t, 1, a.Count(Info))
}

func TestReadOnlyViewTracksReport(t *testing.T) {
	r := New()
	view := r.ReadOnly()
	assert.True(t, view.IsOk())

	r.AddError("", 0, 0, "internal")
	assert.False(t, view.IsOk())
	assert.Equal(t, Error, view.Severity())

	msgs := view.Messages()
	msgs[0].Text = "changed"
	assert.Equal(t, "internal", r.Messages()[0].Text, "Messages must return a copy")
}

func TestMessageString(t *testing.T) {
	m := Message{Severity: Error, Path: "x.m", Line: 2, Column: 5, Text: "LEXER - bad"}
	assert.Equal(t, "[Error] x.m Line: [2] Column: [5] Text: [LEXER - bad]", m.String())
	assert.Equal(t, "Severity(9)", Severity(9).String())
}
