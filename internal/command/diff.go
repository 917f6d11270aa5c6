// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/sheetwatch/sheetwatch/internal/config"
	"github.com/sheetwatch/sheetwatch/internal/differ"
	"github.com/sheetwatch/sheetwatch/internal/failure"
	"github.com/sheetwatch/sheetwatch/internal/filters"
	"github.com/sheetwatch/sheetwatch/internal/log"
	"github.com/sheetwatch/sheetwatch/internal/meta"
	"github.com/sheetwatch/sheetwatch/internal/output"
	"github.com/sheetwatch/sheetwatch/internal/rowset"
	"github.com/sheetwatch/sheetwatch/internal/sheet"
)

// isTerminal reports whether stdout is a terminal. Replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// diffCommandAction compares two local workbooks without touching the
// snapshot store or sending mail.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) != 2 {
		return fmt.Errorf("%w: diff needs exactly two files, got %d", failure.ErrConfig, len(args))
	}

	mode, err := differ.ParseMode(cmd.String("mode"))
	if err != nil {
		return fmt.Errorf("%w: %w", failure.ErrConfig, err)
	}

	fs, err := filters.Build(cmd.String("filter"))
	if err != nil {
		return err
	}

	prev, err := loadTable(args[0], fs)
	if err != nil {
		return err
	}
	curr, err := loadTable(args[1], fs)
	if err != nil {
		return err
	}

	// --color beats colors.enabled in the config file, which beats TTY detection.
	color, err := config.GetBool("colors.enabled", isTerminal())
	if err != nil {
		return fmt.Errorf("%w: colors.enabled: %w", failure.ErrConfig, err)
	}
	if cmd.IsSet("color") {
		color = cmd.Bool("color")
	}
	log.Debugf("diff: %s -> %s mode=%s color=%t", args[0], args[1], mode, color)

	result := differ.Compare(rowset.FromTable(prev), rowset.FromTable(curr), mode)
	return output.Emit(Stdout(cmd), result, output.Options{
		Format:    cmd.String("output"),
		MaxSample: cmd.Int("max-sample"),
		Color:     color,
		Columns:   curr.Columns,
	})
}

func loadTable(path string, fs []filters.Filter) (*sheet.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", failure.ErrStorage, path, err)
	}
	t, err := sheet.Parse(data)
	if err == nil {
		t, err = filters.Apply(t, fs)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func diffCommandBuilder(meta meta.Meta) *cli.Command {
	ns, path := "diff", meta.ConfigFile()

	return &cli.Command{
		Name:      "diff",
		Usage:     "compare two local spreadsheets",
		UsageText: "sheetwatch diff OLD.xlsx NEW.xlsx [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  append(NewReportFlags(ns, path), NewOutputFlags(ns, path)...),
		Action: diffCommandAction,
	}
}
