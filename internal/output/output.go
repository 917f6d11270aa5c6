// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"gopkg.in/yaml.v2"

	"github.com/sheetwatch/sheetwatch/internal/config"
	"github.com/sheetwatch/sheetwatch/internal/differ"
	"github.com/sheetwatch/sheetwatch/internal/rowset"
)

// Formats accepted by Emit.
var Formats = []string{"text", "table", "json", "yaml"}

// Options control how a result is emitted.
type Options struct {
	Format    string
	MaxSample int
	Color     bool
	// Columns labels the table format's header row.
	Columns []string
}

// Summary is the machine-readable form of a result.
type Summary struct {
	PreviousTotal int        `json:"previous_total" yaml:"previous_total"`
	CurrentTotal  int        `json:"current_total" yaml:"current_total"`
	AddedCount    int        `json:"added_count" yaml:"added_count"`
	RemovedCount  int        `json:"removed_count" yaml:"removed_count"`
	Changed       bool       `json:"changed" yaml:"changed"`
	Added         [][]string `json:"added" yaml:"added"`
	Removed       [][]string `json:"removed" yaml:"removed"`
}

// NewSummary converts r. Row lists are never nil so they encode as [].
func NewSummary(r differ.Result) Summary {
	return Summary{
		PreviousTotal: r.PreviousTotal,
		CurrentTotal:  r.CurrentTotal,
		AddedCount:    len(r.Added),
		RemovedCount:  len(r.Removed),
		Changed:       r.Changed(),
		Added:         toStrings(r.Added),
		Removed:       toStrings(r.Removed),
	}
}

func toStrings(rows []rowset.Row) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string(r))
	}
	return out
}

// Emit writes r to w in opts.Format. If w is nil, os.Stdout is used.
func Emit(w io.Writer, r differ.Result, opts Options) error {
	if w == nil {
		w = os.Stdout
	}

	switch opts.Format {
	case "json":
		b, err := json.MarshalIndent(NewSummary(r), "", "  ")
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		b, err := yaml.Marshal(NewSummary(r))
		if err != nil {
			return fmt.Errorf("yaml marshal: %w", err)
		}
		_, err = w.Write(b)
		return err
	case "table":
		return tableWriter(w, r, opts)
	case "", "text":
		return textWriter(w, r, opts)
	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
}

// textWriter prints the same report that is mailed. With color, section
// headers are bold and rows take the added or removed color.
func textWriter(w io.Writer, r differ.Result, opts Options) error {
	report := differ.Render(r, opts.MaxSample)
	if !opts.Color {
		_, err := fmt.Fprintln(w, report)
		return err
	}

	title, added, removed := getColors("colors")
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(title)
	addedStyle := lipgloss.NewStyle().Foreground(added)
	removedStyle := lipgloss.NewStyle().Foreground(removed)

	var b strings.Builder
	var style *lipgloss.Style
	for _, line := range strings.Split(report, "\n") {
		switch {
		case strings.HasPrefix(line, "=== Added"):
			style = &addedStyle
			line = headerStyle.Render(line)
		case strings.HasPrefix(line, "=== Removed"):
			style = &removedStyle
			line = headerStyle.Render(line)
		case style == nil || line == "" || strings.HasPrefix(line, "... ("):
		default:
			line = style.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// tableWriter lays added and removed rows out as columns, marked + and -.
func tableWriter(w io.Writer, r differ.Result, opts Options) error {
	if !r.Changed() {
		_, err := fmt.Fprintln(w, differ.NoChanges)
		return err
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		addedStyle   = cellStyle
		removedStyle = cellStyle
	)
	if opts.Color {
		title, added, removed := getColors("colors")
		headerStyle = headerStyle.Foreground(title)
		addedStyle = addedStyle.Foreground(added)
		removedStyle = removedStyle.Foreground(removed)
	}

	var rows [][]string
	var marks []string
	add := func(mark string, list []rowset.Row) {
		for i, row := range list {
			if opts.MaxSample >= 0 && i >= opts.MaxSample {
				break
			}
			rows = append(rows, append([]string{mark}, row...))
			marks = append(marks, mark)
		}
	}
	add("+", r.Added)
	add("-", r.Removed)

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row >= 0 && row < len(marks) && marks[row] == "+":
				style = addedStyle
			default:
				style = removedStyle
			}
			if col > 0 {
				style = style.PaddingLeft(2)
			}
			return style
		}).
		Rows(rows...)

	if len(opts.Columns) > 0 {
		t = t.Headers(append([]string{""}, opts.Columns...)...).BorderHeader(false)
	}

	_, err := fmt.Fprintln(w, t)
	return err
}

// darkBackground reports the terminal theme. Replaced in tests.
var darkBackground = func() bool {
	return lipgloss.HasDarkBackground(os.Stdin, os.Stdout)
}

// getColors returns the title, added and removed colors. Each can be set in
// the config file under key; otherwise a default suited to the terminal
// background is used.
func getColors(key string) (title, added, removed color.Color) {
	isDark := darkBackground()

	resolveColor := func(key string, light string, dark string) color.Color {
		if colorCfg, err := config.GetString(key); err == nil {
			return lipgloss.Color(colorCfg)
		}
		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	title = resolveColor(key+".title", "#b08800", "#f6be00")
	added = resolveColor(key+".added", "#1a7f37", "#3fb950")
	removed = resolveColor(key+".removed", "#cf222e", "#f85149")
	return
}
