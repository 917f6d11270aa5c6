// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package log

import (
	"bytes"
	"testing"

	apex "github.com/apex/log"
	"github.com/stretchr/testify/assert"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		in   string
		want apex.Level
	}{
		{"trace", apex.DebugLevel},
		{"debug", apex.DebugLevel},
		{"info", apex.InfoLevel},
		{"warn", apex.WarnLevel},
		{"error", apex.ErrorLevel},
		{"fatal", apex.FatalLevel},
		{"bogus", apex.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, levelFor(tt.in))
		})
	}
}

func TestInitLoggerTo_WritesFieldsAndLevel(t *testing.T) {
	t.Setenv("SHEETWATCH_LOG", "info")
	var buf bytes.Buffer
	InitLoggerTo(&buf)

	WithField("rows", 3).Info("diff computed")
	Debugf("hidden %d", 1)

	out := buf.String()
	assert.Contains(t, out, " I diff computed rows=3")
	assert.NotContains(t, out, "hidden")
}

func TestTracef_OnlyWhenTraceEnabled(t *testing.T) {
	var buf bytes.Buffer

	t.Setenv("SHEETWATCH_LOG", "debug")
	InitLoggerTo(&buf)
	Tracef("first %s", "call")
	assert.Empty(t, buf.String())

	t.Setenv("SHEETWATCH_LOG", "trace")
	InitLoggerTo(&buf)
	Tracef("second %s", "call")
	assert.Contains(t, buf.String(), " T second call")
}
