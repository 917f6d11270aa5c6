// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package failure defines the error taxonomy shared by the sheetwatch
// pipeline: transport, timeout, parse, config, delivery and storage failures.
// None of these are retried; every one of them aborts the run.
package failure
