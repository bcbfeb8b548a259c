// Package filter applies date-range and category predicates to a record
// store, producing filtered views. Everything here is pure: the store is
// never mutated and identical parameters always yield identical views.
package filter

import (
	"sort"
	"time"

	"github.com/mirador-lab/project-mirador/internal/core/dataset"
)

// Params selects a calendar-day range (inclusive on both ends) and a
// category set. An empty category set selects nothing — it is not an
// "all categories" shorthand.
type Params struct {
	Start      time.Time
	End        time.Time
	Categories map[string]struct{}
}

// NewParams builds Params from plain values.
func NewParams(start, end time.Time, categories []string) Params {
	p := Params{
		Start:      start,
		End:        end,
		Categories: make(map[string]struct{}, len(categories)),
	}
	for _, c := range categories {
		p.Categories[c] = struct{}{}
	}
	return p
}

// Clamp bounds the date range to the store's [MinDate, MaxDate] and
// drops categories the store doesn't contain. Unknown categories are
// silently ignored, not errors. Zero Start/End mean "unbounded" and
// clamp to the store edge.
func (p Params) Clamp(s *dataset.Store) Params {
	out := Params{Categories: make(map[string]struct{}, len(p.Categories))}
	for c := range p.Categories {
		if s.HasCategory(c) {
			out.Categories[c] = struct{}{}
		}
	}

	min, max := s.MinDate(), s.MaxDate()
	out.Start = clampDate(p.Start, min, min, max)
	out.End = clampDate(p.End, max, min, max)
	return out
}

// clampDate bounds t into [min, max]; the zero value falls back to edge.
// A bound entirely past the data lands on the nearest store edge, so a
// start after MaxDate selects the last day rather than nothing.
func clampDate(t, edge, min, max time.Time) time.Time {
	switch {
	case t.IsZero():
		return edge
	case t.Before(min):
		return min
	case t.After(max):
		return max
	}
	return t
}

// Apply returns the ordered subsequence of store records whose calendar
// day falls inside [Start, End] and whose category is selected. An empty
// category set or an inverted range yields an empty view, never an error.
func Apply(s *dataset.Store, p Params) []dataset.Record {
	if len(p.Categories) == 0 || s.Len() == 0 {
		return nil
	}

	lo := dataset.DayStart(p.Start)
	hi := dataset.DayStart(p.End).AddDate(0, 0, 1) // exclusive upper bound
	if !lo.Before(hi) {
		return nil
	}

	records := s.All()

	// The store is timestamp-sorted, so both range bounds binary-search.
	first := sort.Search(len(records), func(i int) bool {
		return !records[i].Timestamp.Before(lo)
	})
	last := sort.Search(len(records), func(i int) bool {
		return !records[i].Timestamp.Before(hi)
	})

	var view []dataset.Record
	for _, r := range records[first:last] {
		if _, ok := p.Categories[r.Category]; ok {
			view = append(view, r)
		}
	}
	return view
}
