// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters narrows a parsed sheet to the rows worth watching.
//
// Filters are column-operator-target expressions joined by a delimiter
// (default ",", overridden by SHEETWATCH_FILTER_DELIM). The column is matched
// against the header row exactly. Operators:
//
//   - = : equals (numeric when both sides are numbers)
//   - ~ : equals, ignoring case
//   - ^ : prefix
//   - < : less than
//   - > : greater than
//   - @ : contains substring
//   - / : regular expression
//
// Any operator may be negated with a leading '!'.
//
// Examples:
//
//   - "Region=WECC"
//   - "Status!=Closed,Entity^ACME"
//   - "Penalty>10000"
//   - "Standard/^CIP-0(0[2-9]|1[0-4])"
//
// Filtering happens after parsing and before comparison, so the stored
// snapshot always holds the complete report.
package filters
