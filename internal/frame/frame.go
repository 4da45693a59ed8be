// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

// Package frame combines per-source aggregate frames into joined views.
//
// Entities are country names: the join key is the case-folded name, the
// display name is preserved verbatim from the first source that
// reported the entity. Per-source availability is recorded at join time
// so quality reporting never has to re-derive it.
package frame

import (
	"sort"
	"strings"
)

// Join modes.
const (
	JoinInner = "inner"
	JoinLeft  = "left"
)

// SourceFrame is one source's aggregated view: one row of named metric
// values per entity. A nil metric value is a missing observation.
type SourceFrame struct {
	Source string
	Rows   map[string]Row
}

// Row is one entity's observation in a source frame. Name keeps the
// source's original spelling for display.
type Row struct {
	Name    string
	Metrics map[string]*float64
}

// NewSourceFrame returns an empty frame for a source.
func NewSourceFrame(source string) *SourceFrame {
	return &SourceFrame{Source: source, Rows: make(map[string]Row)}
}

// Add inserts an entity row, keyed by the case-folded name.
func (f *SourceFrame) Add(name string, metrics map[string]*float64) {
	f.Rows[Key(name)] = Row{Name: name, Metrics: metrics}
}

// Key normalizes an entity name for joining.
func Key(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// JoinedRow is one entity of a joined frame. Available records, per
// source, whether that source reported the entity at all.
type JoinedRow struct {
	Name      string
	Sources   map[string]map[string]*float64
	Available map[string]bool
}

// JoinedFrame is the result of combining two or more source frames.
type JoinedFrame struct {
	Mode     string
	Entities []string
	Rows     map[string]JoinedRow
	Coverage map[string]int
}

// Join combines frames on the normalized entity key.
//
// Inner mode keeps an entity only when every frame reported it, for
// analyses that need complete pairs. Left mode keeps an entity reported
// by at least one frame and records which sources covered it. Coverage
// counts, per source, the entities of the joined frame that source
// provided.
func Join(frames []*SourceFrame, mode string) *JoinedFrame {
	joined := &JoinedFrame{
		Mode:     mode,
		Rows:     make(map[string]JoinedRow),
		Coverage: make(map[string]int, len(frames)),
	}
	for _, f := range frames {
		joined.Coverage[f.Source] = 0
	}
	if len(frames) == 0 {
		return joined
	}

	keys := make(map[string]string) // join key -> display name, first reporter wins
	var order []string
	for _, f := range frames {
		for k, row := range f.Rows {
			if _, seen := keys[k]; !seen {
				keys[k] = row.Name
				order = append(order, k)
			}
		}
	}
	sort.Strings(order)

	for _, k := range order {
		row := JoinedRow{
			Name:      keys[k],
			Sources:   make(map[string]map[string]*float64, len(frames)),
			Available: make(map[string]bool, len(frames)),
		}
		present := 0
		for _, f := range frames {
			r, ok := f.Rows[k]
			row.Available[f.Source] = ok
			if ok {
				row.Sources[f.Source] = r.Metrics
				present++
			}
		}
		if mode == JoinInner && present < len(frames) {
			continue
		}
		joined.Entities = append(joined.Entities, row.Name)
		joined.Rows[k] = row
		for _, f := range frames {
			if row.Available[f.Source] {
				joined.Coverage[f.Source]++
			}
		}
	}
	return joined
}

// MetricColumn extracts one source's metric across the joined entities,
// in entity order, nil where the entity or metric is missing. Shaped
// for the correlation engine's paired inputs.
func (j *JoinedFrame) MetricColumn(source, metric string) []*float64 {
	col := make([]*float64, 0, len(j.Entities))
	for _, name := range j.Entities {
		row := j.Rows[Key(name)]
		if m, ok := row.Sources[source]; ok {
			col = append(col, m[metric])
		} else {
			col = append(col, nil)
		}
	}
	return col
}

// CoveragePct converts a coverage count into a percentage of the
// requested entity count.
func CoveragePct(covered, requested int) float64 {
	if requested <= 0 {
		return 0
	}
	return float64(covered) / float64(requested) * 100
}
