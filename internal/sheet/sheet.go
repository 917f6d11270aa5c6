// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sheet

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sheetwatch/sheetwatch/internal/failure"
	"github.com/sheetwatch/sheetwatch/internal/log"
)

// Cell is a single spreadsheet value. Valid is false for missing cells, which
// includes blank cells and positions past the end of a short row.
type Cell struct {
	Value string
	Valid bool
}

// Table is the first sheet of a workbook: a header row and the data rows
// beneath it, all padded to the same width.
type Table struct {
	Sheet   string
	Columns []string
	Rows    [][]Cell
}

// Width returns the number of columns every row carries.
func (t *Table) Width() int {
	return len(t.Columns)
}

// Parse decodes xlsx bytes and returns the first sheet as a Table. The first
// non-blank row is consumed as the header; fully blank rows are skipped.
// Invalid bytes or a workbook without sheets wrap failure.ErrParse.
func Parse(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: not a readable spreadsheet: %w", failure.ErrParse, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", failure.ErrParse)
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %w", failure.ErrParse, sheets[0], err)
	}

	t := FromRecords(raw)
	t.Sheet = sheets[0]
	log.Debugf("parsed sheet %q: columns=%d rows=%d", t.Sheet, t.Width(), len(t.Rows))
	return t, nil
}

// FromRecords builds a Table from raw string records, applying the same header
// and blank-row rules as Parse.
func FromRecords(records [][]string) *Table {
	t := &Table{}

	var body [][]string
	headerFound := false
	for _, rec := range records {
		// Blank rows anywhere are dropped, not kept as an all-missing row.
		if isBlank(rec) {
			continue
		}
		if !headerFound {
			t.Columns = append([]string(nil), rec...)
			headerFound = true
			continue
		}
		body = append(body, rec)
	}

	width := len(t.Columns)
	for _, rec := range body {
		if len(rec) > width {
			width = len(rec)
		}
	}
	for len(t.Columns) < width {
		t.Columns = append(t.Columns, "")
	}
	for i := range t.Columns {
		t.Columns[i] = strings.TrimSpace(t.Columns[i])
	}

	t.Rows = make([][]Cell, 0, len(body))
	for _, rec := range body {
		row := make([]Cell, width)
		for j := range rec {
			if rec[j] != "" {
				row[j] = Cell{Value: rec[j], Valid: true}
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
