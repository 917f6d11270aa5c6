// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package tracker wires the fetcher, snapshot store, differ and notifier into
// a single pass:
//
//	fetch -> (previous snapshot? compare : baseline) -> persist -> notify
//
// Runs are sequential and unretried. With the eager commit policy a failed
// send happens after the snapshot was replaced, so the old baseline is gone.
package tracker
