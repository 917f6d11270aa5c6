// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output renders a diff result for the terminal or for scripts: the
// mailed text report (optionally colored), a lipgloss table, JSON or YAML.
package output
