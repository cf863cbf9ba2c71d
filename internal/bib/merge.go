// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"sort"

	"github.com/pdiddy/bibtex-utils/internal/cite"
	"github.com/pdiddy/bibtex-utils/pkg/types"
)

// Merge full-outer-joins the citation keys with the bibliography on ID and
// adds a cited column holding True or False.
//
// Every bibliography row is kept, including rows sharing an ID, with cited
// set to whether its ID is in cites. Every key not matching any row becomes
// a row holding only ID and cited=true. Rows are ordered by ID; rows with
// equal IDs keep their bibliography order. Columns are ID, cited, then the
// remaining bibliography columns in their current order. The input table is
// not modified.
func Merge(t *types.Table, cites cite.Set) *types.Table {
	cols := []string{types.ColID, types.ColCited}
	for _, c := range t.Columns {
		if c != types.ColID && c != types.ColCited {
			cols = append(cols, c)
		}
	}
	out := types.NewTable(cols...)

	byID := make(map[string][]types.Row)
	var ids []string
	for _, r := range t.Rows {
		id := r[types.ColID]
		if _, seen := byID[id]; !seen {
			ids = append(ids, id)
		}
		byID[id] = append(byID[id], r)
	}
	for k := range cites {
		if _, ok := byID[k]; !ok {
			ids = append(ids, k)
		}
	}
	sort.Strings(ids)

	for _, id := range ids {
		cited := citedValue(cites.Has(id))
		rows, ok := byID[id]
		if !ok {
			out.Rows = append(out.Rows, types.Row{types.ColID: id, types.ColCited: cited})
			continue
		}
		for _, r := range rows {
			merged := make(types.Row, len(r)+1)
			for k, v := range r {
				merged[k] = v
			}
			merged[types.ColCited] = cited
			out.Rows = append(out.Rows, merged)
		}
	}
	return out
}

func citedValue(cited bool) string {
	if cited {
		return "True"
	}
	return "False"
}
