// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package log wraps apex/log with a compact single-line handler and a level
// taken from SHEETWATCH_LOG (trace, debug, info, warn, error, fatal).
package log
