// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/bibtex-utils/internal/cite"
	"github.com/pdiddy/bibtex-utils/pkg/types"
)

const sampleBib = `
@article{lam2019idflakies,
  title = {iDFlakies: A Framework for Detecting and Partially Classifying Flaky Tests},
  author = {Lam, Wing and Oei, Reed},
  journal = {ICST},
  year = {2019},
  url = {https://example.org/idflakies}
}

@misc{bazelAttributeFlaky,
  title = "Bazel flaky attribute",
  howpublished = {Bazel documentation}
}
`

func TestParse(t *testing.T) {
	tbl, err := Parse(strings.NewReader(sampleBib), nil)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())

	assert.Equal(t, []string{"ID", "ENTRYTYPE", "title", "author", "journal", "year", "url", "howpublished"}, tbl.Columns)

	first := tbl.Rows[0]
	assert.Equal(t, "lam2019idflakies", first["ID"])
	assert.Equal(t, "article", first["ENTRYTYPE"])
	assert.Equal(t, "2019", first["year"])
	assert.Equal(t, "ICST", first["journal"])

	second := tbl.Rows[1]
	assert.Equal(t, "bazelAttributeFlaky", second["ID"])
	assert.Equal(t, "misc", second["ENTRYTYPE"])
	assert.Equal(t, "Bazel flaky attribute", second["title"])
	_, ok := second.Get("url")
	assert.False(t, ok, "missing field must be absent")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.bib")
	require.NoError(t, os.WriteFile(path, []byte(sampleBib), 0o644))

	tbl, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.bib"), nil)
	require.Error(t, err)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bib")
	require.NoError(t, os.WriteFile(path, []byte("@article{broken, title = {T"), 0o644))

	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.bib")
}

func ids(tbl *types.Table) []string {
	out := make([]string, 0, tbl.Len())
	for _, r := range tbl.Rows {
		out = append(out, r["ID"])
	}
	return out
}

func TestParse_TextOutsideEntriesIsIgnored(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"leading comment", "% a comment line\n@article{a,title={T}}\n@article{b,title={U}}\n"},
		{"comment between entries", "@article{a,title={T}}\n% between\n@article{b,title={U}}\n"},
		{"comment holding an at sign", "% mail me@example.org\n@article{a,title={T}}\n@article{b,title={U}}\n"},
		{"preface text", "Some preface text\n@article{a,title={T}}\nmore text\n@article{b,title={U}}\n"},
		{"comment entry", "@comment{ignored, x = {y}}\n@article{a,title={T}}\n@article{b,title={U}}\n"},
		{"preamble", "@preamble{\"\\newcommand{\\noop}[1]{}\"}\n@article{a,title={T}}\n@article{b,title={U}}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Parse(strings.NewReader(tt.src), nil)
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, ids(tbl))
			assert.Equal(t, "U", tbl.Rows[1]["title"])
		})
	}
}

func TestParse_Values(t *testing.T) {
	src := `@string{icst = {ICST}}
@article{a,
  title = "A" # "B",
  journal = icst,
  booktitle = icst # { 2021},
  year = 2021,
  month = jan,
  note = "Say {"}hi{"}",
  abstract = {Braces {NASA} and \{escaped\}},
}
@book(b,
  Title = {Parens}
)
`
	tbl, err := Parse(strings.NewReader(src), nil)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())

	a := tbl.Rows[0]
	assert.Equal(t, "AB", a["title"])
	assert.Equal(t, "icst", a["journal"])
	assert.Equal(t, "icst # { 2021}", a["booktitle"])
	assert.Equal(t, "2021", a["year"])
	assert.Equal(t, "jan", a["month"])
	assert.Equal(t, `Say {"}hi{"}`, a["note"])
	assert.Equal(t, `Braces {NASA} and \{escaped\}`, a["abstract"])

	b := tbl.Rows[1]
	assert.Equal(t, "book", b["ENTRYTYPE"])
	assert.Equal(t, "Parens", b["title"])
}

func TestParse_DuplicateFieldIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	tbl, err := Parse(strings.NewReader("@misc{a, Title = {first}, title = {second}}"), zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, []string{"ID", "ENTRYTYPE", "title"}, tbl.Columns)
	assert.Equal(t, "second", tbl.Rows[0]["title"])
	assert.Equal(t, 1, logs.FilterMessage("duplicate field, keeping the last value").Len())
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unterminated value", "@article{a, title = {T"},
		{"unterminated entry", "@article{a, title = {T},"},
		{"missing equals", "@article{a, title {T}}"},
		{"missing separator", "@article{a, title = {T} year = {2020}}"},
		{"missing delimiter", "@article a, title = {T}"},
		{"missing value", "@article{a, title = }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src), nil)
			assert.Error(t, err)
		})
	}
}

func TestParse_ErrorNamesLine(t *testing.T) {
	_, err := Parse(strings.NewReader("@misc{ok, title = {T}}\n\n@article{a, title {T}}"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func bibTable(rows ...types.Row) *types.Table {
	tbl := types.NewTable("ID", "ENTRYTYPE", "title", "year")
	tbl.Rows = rows
	return tbl
}

func TestMerge_Totality(t *testing.T) {
	tbl := bibTable(
		types.Row{"ID": "X", "ENTRYTYPE": "article", "title": "Tx", "year": "2020"},
		types.Row{"ID": "Y", "ENTRYTYPE": "article", "title": "Ty", "year": "2021"},
	)

	merged := Merge(tbl, cite.NewSet("Y", "Z"))

	require.Equal(t, 3, merged.Len())
	assert.Equal(t, []string{"ID", "cited", "ENTRYTYPE", "title", "year"}, merged.Columns)

	x, y, z := merged.Rows[0], merged.Rows[1], merged.Rows[2]

	assert.Equal(t, "X", x["ID"])
	assert.Equal(t, "False", x["cited"])
	assert.Equal(t, "Tx", x["title"])

	assert.Equal(t, "Y", y["ID"])
	assert.Equal(t, "True", y["cited"])
	assert.Equal(t, "Ty", y["title"])

	assert.Equal(t, "Z", z["ID"])
	assert.Equal(t, "True", z["cited"])
	for _, col := range []string{"ENTRYTYPE", "title", "year"} {
		_, ok := z.Get(col)
		assert.False(t, ok, "%s must be absent for citation-only rows", col)
	}
}

func TestMerge_DuplicateIDsSurvive(t *testing.T) {
	tbl := bibTable(
		types.Row{"ID": "dup", "title": "first"},
		types.Row{"ID": "other", "title": "o"},
		types.Row{"ID": "dup", "title": "second"},
	)

	merged := Merge(tbl, cite.NewSet("dup"))

	require.Equal(t, 3, merged.Len())
	assert.Equal(t, "first", merged.Rows[0]["title"])
	assert.Equal(t, "True", merged.Rows[0]["cited"])
	assert.Equal(t, "second", merged.Rows[1]["title"])
	assert.Equal(t, "True", merged.Rows[1]["cited"])
	assert.Equal(t, "other", merged.Rows[2]["ID"])
	assert.Equal(t, "False", merged.Rows[2]["cited"])
}

func TestMerge_CitedIgnoresMissingFields(t *testing.T) {
	tbl := bibTable(types.Row{"ID": "bare"})

	merged := Merge(tbl, cite.NewSet())

	require.Equal(t, 1, merged.Len())
	assert.Equal(t, "False", merged.Rows[0]["cited"])

	merged = Merge(tbl, cite.NewSet("bare"))
	assert.Equal(t, "True", merged.Rows[0]["cited"])
}

func TestMerge_EmptyKeyIsARow(t *testing.T) {
	merged := Merge(bibTable(), cite.NewSet(""))

	require.Equal(t, 1, merged.Len())
	assert.Equal(t, "", merged.Rows[0]["ID"])
	assert.Equal(t, "True", merged.Rows[0]["cited"])
}

func TestMerge_DoesNotModifyInput(t *testing.T) {
	tbl := bibTable(types.Row{"ID": "X", "title": "T"})

	Merge(tbl, cite.NewSet("X"))

	assert.Equal(t, []string{"ID", "ENTRYTYPE", "title", "year"}, tbl.Columns)
	_, ok := tbl.Rows[0].Get("cited")
	assert.False(t, ok)
}
