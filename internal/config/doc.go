// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for sheetwatch's
// optional YAML configuration. The file is taken from SHEETWATCH_CFG_FILE or,
// failing that, from the user's configuration directory:
//   - Linux: $XDG_CONFIG_HOME/sheetwatch.yaml or $HOME/.config/sheetwatch.yaml
//   - macOS: $HOME/Library/Application Support/sheetwatch.yaml
//   - Windows: %AppData%/sheetwatch.yaml
//
// Keys mirror the command-line flags. A key under "run." overrides the bare
// key for the run command.
package config
