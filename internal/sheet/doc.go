// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package sheet decodes report bytes into a Table. Only the first sheet of an
// xlsx workbook is read, and cell values are the formatted strings excelize
// displays for them (numbers and dates as shown in the spreadsheet).
package sheet
