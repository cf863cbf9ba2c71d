// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Set
	}{
		{
			name: "single key",
			text: `\cite{a}`,
			want: NewSet("a"),
		},
		{
			name: "multi key split and trimmed",
			text: `\cite{a, b,c}`,
			want: NewSet("a", "b", "c"),
		},
		{
			name: "inline comment removes later cites",
			text: `\cite{a} % \cite{b}`,
			want: NewSet("a"),
		},
		{
			name: "escaped percent is not a comment",
			text: `100\% done \cite{c}`,
			want: NewSet("c"),
		},
		{
			name: "comment after escaped percent",
			text: `50\% \cite{x} % \cite{y}`,
			want: NewSet("x"),
		},
		{
			name: "several macros per line",
			text: `see \cite{a} and \cite{b}`,
			want: NewSet("a", "b"),
		},
		{
			name: "several lines",
			text: "\\cite{a}\n\\cite{b}\n% \\cite{c}\n\\cite{d}",
			want: NewSet("a", "b", "d"),
		},
		{
			name: "trailing line without newline",
			text: "intro\n\\cite{last}",
			want: NewSet("last"),
		},
		{
			name: "empty body yields empty key",
			text: `\cite{}`,
			want: NewSet(""),
		},
		{
			name: "trailing comma yields empty key",
			text: `\cite{a,}`,
			want: NewSet("a", ""),
		},
		{
			name: "body stops at first closing brace",
			text: `\cite{a{b}c}`,
			want: NewSet("a{b"),
		},
		{
			name: "other macros ignored",
			text: `\citep{a} \ref{b} \cite[p. 3]{c}`,
			want: NewSet(),
		},
		{
			name: "no macros",
			text: "plain text\nmore text",
			want: NewSet(),
		},
		{
			name: "empty document",
			text: "",
			want: NewSet(),
		},
		{
			name: "duplicates collapse",
			text: "\\cite{a}\n\\cite{a, a}",
			want: NewSet("a"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text))
		})
	}
}

func TestExtract_Idempotent(t *testing.T) {
	text := "\\cite{a,b} text \\cite{c}\n% \\cite{d}\n\\cite{e}"
	assert.Equal(t, Extract(text), Extract(text))
}

func TestExtract_OrderWithinLineIrrelevant(t *testing.T) {
	assert.Equal(t,
		Extract(`\cite{a} \cite{b, c} \cite{d}`),
		Extract(`\cite{d} \cite{b, c} \cite{a}`),
	)
}

func TestStripComment(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"no comment", "no comment"},
		{"% whole line", ""},
		{"text % comment", "text "},
		{`100\% real`, `100\% real`},
		{`100\% real % fake`, `100\% real `},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, stripComment(tt.line))
		})
	}
}

func TestSet(t *testing.T) {
	s := NewSet("b", "a")
	s.Union(NewSet("c", "a"))

	assert.True(t, s.Has("c"))
	assert.False(t, s.Has("d"))
	assert.Equal(t, []string{"a", "b", "c"}, s.Sorted())
}
