package dataset

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one normalized observation: a timestamp, a monetary value
// (sale amount or closing price, exact decimal), a category label, and
// profile-specific extra columns carried through as raw strings.
type Record struct {
	Timestamp time.Time
	Value     decimal.Decimal
	Category  string
	Extras    map[string]string
}

// Store is an immutable, timestamp-ordered table of records.
// Built once per raw input; every downstream operation produces new
// slices and never mutates the store. Ties on timestamp keep input order.
type Store struct {
	records    []Record
	categories []string
	catSet     map[string]struct{}
}

// NewStore copies records, stable-sorts them ascending by timestamp and
// indexes the distinct categories in first-appearance order.
func NewStore(records []Record) *Store {
	rs := make([]Record, len(records))
	copy(rs, records)
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].Timestamp.Before(rs[j].Timestamp)
	})

	s := &Store{
		records: rs,
		catSet:  make(map[string]struct{}),
	}
	for _, r := range rs {
		if _, seen := s.catSet[r.Category]; !seen {
			s.catSet[r.Category] = struct{}{}
			s.categories = append(s.categories, r.Category)
		}
	}
	return s
}

// Len returns the number of records in the store.
func (s *Store) Len() int { return len(s.records) }

// All returns the ordered records. The slice is shared — callers must
// treat it as read-only.
func (s *Store) All() []Record { return s.records }

// MinDate returns the earliest timestamp, or the zero time when empty.
func (s *Store) MinDate() time.Time {
	if len(s.records) == 0 {
		return time.Time{}
	}
	return s.records[0].Timestamp
}

// MaxDate returns the latest timestamp, or the zero time when empty.
func (s *Store) MaxDate() time.Time {
	if len(s.records) == 0 {
		return time.Time{}
	}
	return s.records[len(s.records)-1].Timestamp
}

// Categories returns the distinct category labels in first-appearance order.
func (s *Store) Categories() []string { return s.categories }

// HasCategory reports whether the given category occurs in the store.
func (s *Store) HasCategory(c string) bool {
	_, ok := s.catSet[c]
	return ok
}
