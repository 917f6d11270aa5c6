// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package notify emails the daily report. One message goes to every
// recipient over SMTP with STARTTLS and PLAIN auth. Nothing is retried.
package notify
