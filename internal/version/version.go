// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Do not import any other sheetwatch packages to avoid import cycles.

package version

import "runtime/debug"

// Name is the program name used in help text, mail headers and User-Agent.
const Name = "sheetwatch"

var Version = func() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "(devel)" && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}()

// UserAgent returns the HTTP User-Agent sent when fetching reports.
func UserAgent() string {
	return Name + "/" + Version
}
