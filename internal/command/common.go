// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/sheetwatch/sheetwatch/internal/config"
	"github.com/sheetwatch/sheetwatch/internal/failure"
	"github.com/sheetwatch/sheetwatch/internal/meta"
	"github.com/sheetwatch/sheetwatch/internal/snapshot"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// Stdout is where command results go: the root command's Writer, or
// os.Stdout when none is set.
func Stdout(cmd *cli.Command) io.Writer {
	if cmd != nil && cmd.Root() != nil && cmd.Root().Writer != nil {
		return cmd.Root().Writer
	}
	return os.Stdout
}

// OpenSnapshotStore opens the store described by the snapshot flags. The
// s3 retry cap has no flag and is read from the config key s3.retries.
func OpenSnapshotStore(ctx context.Context, cmd *cli.Command) (snapshot.Store, error) {
	retries, err := config.GetInt("s3.retries", 0)
	if err != nil {
		return nil, fmt.Errorf("%w: s3.retries: %w", failure.ErrConfig, err)
	}

	return snapshot.Open(ctx, snapshot.Config{
		Driver:    snapshot.Driver(cmd.String("snapshot-driver")),
		Path:      cmd.String("snapshot"),
		Bucket:    cmd.String("bucket"),
		Region:    cmd.String("region"),
		Endpoint:  cmd.String("endpoint"),
		PathStyle: cmd.Bool("path-style"),
		Profile:   cmd.String("aws-profile"),
		AccessKey: cmd.String("aws-access-key"),
		SecretKey: cmd.String("aws-secret-key"),
		Retries:   retries,
	})
}
