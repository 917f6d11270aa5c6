// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"

	"github.com/sheetwatch/sheetwatch/internal/failure"
	"github.com/sheetwatch/sheetwatch/internal/sheet"
)

// EnvDelim overrides the "," between filter expressions.
const EnvDelim = "SHEETWATCH_FILTER_DELIM"

// filterRegex splits an expression into column, operator and target. The
// operator is one of = ~ ^ < > @ /, optionally prefixed with '!'.
var filterRegex = regexp.MustCompile(`^([^!=~^<>@/]*)(!?[=~^<>@/])(.*)$`)

// Filter is a single parsed --filter expression.
type Filter struct {
	Column  string `yaml:"column" json:"Column"`
	Negate  bool   `yaml:"negate" json:"Negate"`
	Operand string `yaml:"operand" json:"Operand"`
	Value   string `yaml:"value" json:"Value"`

	re *regexp.Regexp
}

func (f Filter) String() string {
	neg := ""
	if f.Negate {
		neg = "!"
	}
	return f.Column + neg + f.Operand + f.Value
}

// Build parses a delimited list of filter expressions. A malformed expression
// fails the whole list with ErrConfig.
func Build(spec string) ([]Filter, error) {
	//nolint:prealloc
	var filters []Filter

	if strings.TrimSpace(spec) == "" {
		return filters, nil
	}

	delim := ","
	if d, ok := os.LookupEnv(EnvDelim); ok && d != "" {
		delim = d
	}

	for _, expr := range strings.Split(spec, delim) {
		expr = strings.TrimSpace(expr)
		if expr == "" {
			continue
		}

		parts := filterRegex.FindStringSubmatch(expr)
		if parts == nil {
			return nil, fmt.Errorf("%w: invalid filter %q: missing operator", failure.ErrConfig, expr)
		}

		column := strings.TrimSpace(parts[1])
		if column == "" {
			return nil, fmt.Errorf("%w: invalid filter %q: empty column", failure.ErrConfig, expr)
		}

		operand := parts[2]
		f := Filter{
			Column:  column,
			Negate:  strings.HasPrefix(operand, "!"),
			Operand: strings.TrimPrefix(operand, "!"),
			Value:   parts[3],
		}
		if f.Operand == "/" {
			re, err := regexp.Compile(f.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid filter %q: %w", failure.ErrConfig, expr, err)
			}
			f.re = re
		}
		filters = append(filters, f)
	}

	return filters, nil
}

// Apply returns a copy of t holding only the rows that match every filter.
// A filter naming a column the table lacks is an error.
func Apply(t *sheet.Table, filters []Filter) (*sheet.Table, error) {
	if t == nil || len(filters) == 0 {
		return t, nil
	}

	index := make([]int, len(filters))
	for i, f := range filters {
		index[i] = -1
		for c, name := range t.Columns {
			if name == f.Column {
				index[i] = c
				break
			}
		}
		if index[i] < 0 {
			return nil, fmt.Errorf("%w: filter column %q not found in sheet %q", failure.ErrConfig, f.Column, t.Sheet)
		}
	}

	out := &sheet.Table{Sheet: t.Sheet, Columns: t.Columns}
	for _, row := range t.Rows {
		if matchRow(row, filters, index) {
			out.Rows = append(out.Rows, row)
		}
	}
	log.Debugf("filters %v kept %d of %d rows", filters, len(out.Rows), len(t.Rows))
	return out, nil
}

// matchRow reports whether row passes every filter. Missing cells never match
// a positive filter and always match a negated one.
func matchRow(row []sheet.Cell, filters []Filter, index []int) bool {
	for i, f := range filters {
		c := index[i]
		if c >= len(row) || !row[c].Valid {
			if !f.Negate {
				return false
			}
			continue
		}
		if !Match(row[c].Value, f) {
			return false
		}
	}
	return true
}

// Match evaluates one filter against a cell value. When both sides parse as
// numbers, = < and > compare numerically.
func Match(value string, f Filter) bool {
	if a, ok := toFloat64(value); ok {
		if b, ok := toFloat64(f.Value); ok {
			if result, handled := checkNumericOperand(a, b, f); handled {
				return result
			}
		}
	}
	return checkStringOperand(value, f)
}

// checkNumericOperand handles the operands with a numeric meaning. handled is
// false for the rest, which fall back to string semantics.
func checkNumericOperand(value, tgt float64, f Filter) (result, handled bool) {
	switch f.Operand {
	case "=":
		return (value == tgt) == !f.Negate, true
	case ">":
		return (value > tgt) == !f.Negate, true
	case "<":
		return (value < tgt) == !f.Negate, true
	default:
		return false, false
	}
}

func checkStringOperand(value string, f Filter) bool {
	switch f.Operand {
	case "=":
		return value == f.Value == !f.Negate
	case "~":
		return strings.EqualFold(value, f.Value) == !f.Negate
	case "^":
		return strings.HasPrefix(value, f.Value) == !f.Negate
	case ">":
		return value > f.Value == !f.Negate
	case "<":
		return value < f.Value == !f.Negate
	case "@":
		return strings.Contains(value, f.Value) == !f.Negate
	case "/":
		re := f.re
		if re == nil {
			var err error
			if re, err = regexp.Compile(f.Value); err != nil {
				log.Error("invalid regex: " + f.Value)
				return false
			}
		}
		return re.MatchString(value) == !f.Negate
	default:
		log.Error("unsupported filtering operand: " + f.Operand)
		return false
	}
}

func toFloat64(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return n, err == nil
}
