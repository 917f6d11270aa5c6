// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package rowset

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sheetwatch/sheetwatch/internal/log"
	"github.com/sheetwatch/sheetwatch/internal/sheet"
)

// Delimiter separates cell values when a Row is rendered.
const Delimiter = " | "

// Row is a spreadsheet row reduced to trimmed string values. Missing cells are
// empty strings, so a missing cell and an explicit "" compare equal.
type Row []string

// String joins the values with Delimiter.
func (r Row) String() string {
	return strings.Join(r, Delimiter)
}

// key encodes a Row so that distinct tuples never collide, even when values
// contain the delimiter.
func (r Row) key() string {
	var b strings.Builder
	for _, v := range r {
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}
	return b.String()
}

// Compare orders rows element-wise. When one row is a prefix of the other the
// shorter row sorts first.
func Compare(a, b Row) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// Normalize turns parsed cells into a Row.
func Normalize(cells []sheet.Cell) Row {
	row := make(Row, len(cells))
	for i, c := range cells {
		if c.Valid {
			row[i] = strings.TrimSpace(c.Value)
		}
	}
	return row
}

type entry struct {
	row   Row
	count int
}

// Set is a collection of distinct rows. Each member also remembers how many
// times it was added so multiset comparisons can be made from the same value.
type Set struct {
	entries map[string]*entry
	total   int
}

// New returns a Set holding rows.
func New(rows ...Row) *Set {
	s := &Set{entries: map[string]*entry{}}
	for _, r := range rows {
		s.Add(r)
	}
	return s
}

// FromTable normalizes every data row of t into a Set. A nil table yields an
// empty Set.
func FromTable(t *sheet.Table) *Set {
	s := New()
	if t == nil {
		return s
	}
	for i, cells := range t.Rows {
		r := Normalize(cells)
		log.Tracef("row %d: %s", i+1, r)
		s.Add(r)
	}
	return s
}

// Add inserts r, bumping its count when already present.
func (s *Set) Add(r Row) {
	if s.entries == nil {
		s.entries = map[string]*entry{}
	}
	s.total++
	k := r.key()
	if e, ok := s.entries[k]; ok {
		e.count++
		return
	}
	s.entries[k] = &entry{row: append(Row(nil), r...), count: 1}
}

// Len is the number of distinct rows.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Total is the number of rows added, duplicates included.
func (s *Set) Total() int {
	if s == nil {
		return 0
	}
	return s.total
}

// Contains reports whether r is a member.
func (s *Set) Contains(r Row) bool {
	return s.Count(r) > 0
}

// Count is how many times r was added.
func (s *Set) Count(r Row) int {
	if s == nil {
		return 0
	}
	if e, ok := s.entries[r.key()]; ok {
		return e.count
	}
	return 0
}

// Rows returns the distinct members in sorted order.
func (s *Set) Rows() []Row {
	if s == nil {
		return nil
	}
	rows := make([]Row, 0, len(s.entries))
	for _, e := range s.entries {
		rows = append(rows, e.row)
	}
	Sort(rows)
	return rows
}

// Minus returns the sorted distinct rows of s that are absent from other.
func (s *Set) Minus(other *Set) []Row {
	var rows []Row
	if s == nil {
		return rows
	}
	for k, e := range s.entries {
		if other != nil {
			if _, ok := other.entries[k]; ok {
				continue
			}
		}
		rows = append(rows, e.row)
	}
	Sort(rows)
	return rows
}

// MinusCounts is Minus with multiplicity: a row added three times to s and
// once to other appears twice in the result.
func (s *Set) MinusCounts(other *Set) []Row {
	var rows []Row
	if s == nil {
		return rows
	}
	for _, e := range s.entries {
		n := e.count - other.Count(e.row)
		for i := 0; i < n; i++ {
			rows = append(rows, e.row)
		}
	}
	Sort(rows)
	return rows
}

// Sort orders rows in place using Compare.
func Sort(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return Compare(rows[i], rows[j]) < 0
	})
}
