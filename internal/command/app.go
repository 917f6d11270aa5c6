// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/sheetwatch/sheetwatch/internal/config"
	"github.com/sheetwatch/sheetwatch/internal/meta"
	"github.com/sheetwatch/sheetwatch/internal/version"
)

// InitApp builds the command tree. args[1], when it is not a flag, names the
// subcommand and doubles as the config namespace.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	cfg, err := config.Load(ns)
	if err != nil && !errors.Is(err, config.ErrNoConfigFile) {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	meta := meta.New(ctx, args, cfg, sd)

	app := &cli.Command{
		Name:    version.Name,
		Usage:   "watch a published spreadsheet and mail the daily row-level changes",
		Version: version.Version,
		Metadata: map[string]any{
			"meta": meta,
		},
	}

	app.Commands = append(app.Commands,
		runCommandBuilder(meta),
		diffCommandBuilder(meta),
		snapshotCommandBuilder(meta),
		completionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
