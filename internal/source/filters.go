// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package source

import (
	"fmt"
	"strings"
)

// queryFilter accumulates WHERE conditions and their args for the
// optional date-range and country-list filters shared by every source
// query. Columns are supplied by the callers from static strings.
type queryFilter struct {
	conds []string
	args  []any
}

// dateRange appends col >= from / col <= to for the bounds that are set.
// Dates arrive as YYYY-MM-DD strings; DuckDB casts them against DATE
// columns.
func (f *queryFilter) dateRange(col string, from, to *string) {
	if from != nil && *from != "" {
		f.conds = append(f.conds, col+" >= ?")
		f.args = append(f.args, *from)
	}
	if to != nil && *to != "" {
		f.conds = append(f.conds, col+" <= ?")
		f.args = append(f.args, *to)
	}
}

// countries appends a case-folded IN filter when the list is non-empty.
func (f *queryFilter) countries(col string, countries []string) {
	if len(countries) == 0 {
		return
	}
	placeholders := make([]string, len(countries))
	for i, c := range countries {
		placeholders[i] = "?"
		f.args = append(f.args, strings.ToLower(strings.TrimSpace(c)))
	}
	f.conds = append(f.conds, fmt.Sprintf("lower(%s) IN (%s)", col, strings.Join(placeholders, ", ")))
}

// country appends a single case-folded equality filter.
func (f *queryFilter) country(col, name string) {
	f.conds = append(f.conds, fmt.Sprintf("lower(%s) = ?", col))
	f.args = append(f.args, strings.ToLower(strings.TrimSpace(name)))
}

// where renders the accumulated conditions, or the empty string when
// there are none.
func (f *queryFilter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(f.conds, " AND ")
}
