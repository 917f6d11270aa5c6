// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/google/uuid"

	"github.com/sheetwatch/sheetwatch/internal/config"
)

// Meta contains runtime metadata shared by commands. It carries CLI arguments,
// loaded configuration, context, the starting working directory and a run id
// that ties log lines, the outgoing mail and exported metrics together.
type Meta struct {
	Args        []string
	Config      config.Type
	Context     context.Context
	StartingDir string
	RunID       string
}

// New returns a Meta with a fresh run id.
func New(ctx context.Context, args []string, cfg config.Type, startingDir string) Meta {
	return Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: startingDir,
		RunID:       uuid.NewString(),
	}
}

// ConfigFile returns the path of the loaded config file, or "" when sheetwatch
// is running on flags and env vars only.
func (m Meta) ConfigFile() string {
	return m.Config.Source
}
