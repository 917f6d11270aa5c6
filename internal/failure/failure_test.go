// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package failure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", errors.New("boom"), "unknown"},
		{"transport", fmt.Errorf("%w: GET failed", ErrTransport), "transport"},
		{"timeout wins over transport", fmt.Errorf("%w: %w: slow", ErrTransport, ErrTimeout), "timeout"},
		{"parse", fmt.Errorf("%w: bad zip", ErrParse), "parse"},
		{"config", fmt.Errorf("%w: missing user", ErrConfig), "config"},
		{"delivery", fmt.Errorf("%w: auth", ErrDelivery), "delivery"},
		{"storage", fmt.Errorf("%w: disk full", ErrStorage), "storage"},
		{"double wrapped", fmt.Errorf("run: %w", fmt.Errorf("%w: x", ErrParse)), "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}
