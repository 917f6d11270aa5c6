// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package rowset reduces parsed spreadsheet rows to comparable tuples and
// collects them into sets.
//
// Equality is positional and string based. Two rows are the same only when
// every trimmed value matches in the same column, so reordered columns read
// as changed data.
package rowset
