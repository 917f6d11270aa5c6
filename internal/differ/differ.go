// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"strings"

	"github.com/sheetwatch/sheetwatch/internal/log"
	"github.com/sheetwatch/sheetwatch/internal/rowset"
	"github.com/sheetwatch/sheetwatch/internal/sheet"
)

// NoChanges is the exact line a report carries when neither side differs.
// Callers test for it with HasChanges instead of re-deriving the diff.
const NoChanges = "No row-level changes detected (files are identical at row level)."

// DefaultMaxSample caps how many added or removed rows a report lists.
const DefaultMaxSample = 20

// Mode selects how duplicate rows are treated.
type Mode string

const (
	// ModeSet collapses duplicate rows; counts are of distinct rows.
	ModeSet Mode = "set"
	// ModeMultiset keeps duplicates, so a row that appears twice more today
	// than yesterday is reported as two additions.
	ModeMultiset Mode = "multiset"
)

// ParseMode maps a flag value to a Mode. The empty string is ModeSet.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeSet:
		return ModeSet, nil
	case ModeMultiset:
		return ModeMultiset, nil
	}
	return "", fmt.Errorf("invalid mode %q: must be %s or %s", s, ModeSet, ModeMultiset)
}

// Result is the outcome of comparing two row sets. Added and Removed are
// sorted.
type Result struct {
	PreviousTotal int
	CurrentTotal  int
	Added         []rowset.Row
	Removed       []rowset.Row
}

// Changed reports whether either side has rows the other lacks.
func (r Result) Changed() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0
}

// Compare diffs prev against curr.
func Compare(prev, curr *rowset.Set, mode Mode) Result {
	if mode == ModeMultiset {
		return Result{
			PreviousTotal: prev.Total(),
			CurrentTotal:  curr.Total(),
			Added:         curr.MinusCounts(prev),
			Removed:       prev.MinusCounts(curr),
		}
	}

	return Result{
		PreviousTotal: prev.Len(),
		CurrentTotal:  curr.Len(),
		Added:         curr.Minus(prev),
		Removed:       prev.Minus(curr),
	}
}

// Render formats r as the plain-text report. At most maxSample rows are listed
// per section; a negative cap lists none.
func Render(r Result, maxSample int) string {
	if maxSample < 0 {
		maxSample = 0
	}

	lines := []string{
		fmt.Sprintf("Total rows yesterday: %d", r.PreviousTotal),
		fmt.Sprintf("Total rows today: %d", r.CurrentTotal),
		fmt.Sprintf("Rows added: %d", len(r.Added)),
		fmt.Sprintf("Rows removed: %d", len(r.Removed)),
		"",
	}

	if len(r.Added) > 0 {
		lines = append(lines, "=== Added rows (sample) ===")
		lines = append(lines, sample(r.Added, maxSample, "added")...)
		lines = append(lines, "")
	}

	if len(r.Removed) > 0 {
		lines = append(lines, "=== Removed rows (sample) ===")
		lines = append(lines, sample(r.Removed, maxSample, "removed")...)
	}

	if !r.Changed() {
		lines = append(lines, NoChanges)
	}

	return strings.Join(lines, "\n")
}

func sample(rows []rowset.Row, max int, verb string) []string {
	var out []string
	for i, row := range rows {
		if i >= max {
			out = append(out, fmt.Sprintf("... (%d more %s rows)", len(rows)-max, verb))
			break
		}
		out = append(out, row.String())
	}
	return out
}

// HasChanges reports whether a rendered report describes a change.
func HasChanges(report string) bool {
	return !strings.Contains(report, NoChanges)
}

// Report parses two spreadsheets and renders their row-level diff. Parse
// failures of either side are returned unchanged so failure.ErrParse survives.
func Report(previous, current []byte, maxSample int, mode Mode) (string, Result, error) {
	log.Debugf("differ: previous=%d bytes current=%d bytes mode=%s", len(previous), len(current), mode)

	prevTable, err := sheet.Parse(previous)
	if err != nil {
		return "", Result{}, fmt.Errorf("previous snapshot: %w", err)
	}
	currTable, err := sheet.Parse(current)
	if err != nil {
		return "", Result{}, fmt.Errorf("current report: %w", err)
	}

	result := Compare(rowset.FromTable(prevTable), rowset.FromTable(currTable), mode)
	log.Debugf("differ: previous=%d current=%d added=%d removed=%d",
		result.PreviousTotal, result.CurrentTotal, len(result.Added), len(result.Removed))

	return Render(result, maxSample), result, nil
}
