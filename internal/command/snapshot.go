// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/sheetwatch/sheetwatch/internal/meta"
)

// snapshotCommandAction describes the stored snapshot.
func snapshotCommandAction(ctx context.Context, cmd *cli.Command) error {
	store, err := OpenSnapshotStore(ctx, cmd)
	if err != nil {
		return err
	}

	info, ok, err := store.Stat(ctx)
	if err != nil {
		return err
	}

	w := Stdout(cmd)
	if !ok {
		fmt.Fprintf(w, "no snapshot stored at %s\n", store.Location())
		return nil
	}

	fmt.Fprintf(w, "driver:   %s\n", info.Driver)
	fmt.Fprintf(w, "location: %s\n", info.Location)
	fmt.Fprintf(w, "size:     %s (%d bytes)\n", humanize.Bytes(uint64(info.Size)), info.Size)
	fmt.Fprintf(w, "saved:    %s (%s)\n", info.SavedAt.Format("2006-01-02 15:04:05 MST"), humanize.Time(info.SavedAt))
	fmt.Fprintf(w, "digest:   %s\n", info.Digest)
	return nil
}

func snapshotCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "snapshot",
		Usage:     "show the stored snapshot",
		UsageText: "sheetwatch snapshot [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: NewSnapshotFlags("snapshot", meta.ConfigFile()),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: snapshotCommandAction,
	}
}
