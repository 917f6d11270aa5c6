// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package failure

import "errors"

// Sentinel errors classifying why a run aborted. Components wrap the
// underlying cause with one of these so callers can use errors.Is.
var (
	ErrTransport = errors.New("transport error")
	ErrTimeout   = errors.New("timeout")
	ErrParse     = errors.New("parse error")
	ErrConfig    = errors.New("config error")
	ErrDelivery  = errors.New("delivery error")
	ErrStorage   = errors.New("storage error")
)

// Kind returns a short name for the class of err, or "unknown" if err does not
// wrap any sentinel. Timeouts are reported before the broader transport kind.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrConfig):
		return "config"
	case errors.Is(err, ErrDelivery):
		return "delivery"
	case errors.Is(err, ErrStorage):
		return "storage"
	default:
		return "unknown"
	}
}
