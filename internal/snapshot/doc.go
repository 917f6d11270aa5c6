// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package snapshot stores the single most recent report between runs.
//
// Drivers:
//   - fs: one local file, replaced atomically, with a JSON metadata sidecar.
//   - s3: one object in a bucket (AWS or any S3-compatible endpoint).
//   - memory: process-local, used by tests and dry runs.
//
// There is no history. Save overwrites whatever was there.
package snapshot
