// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"context"
	"sync"
	"time"
)

// Memory keeps the snapshot in process. Nothing survives a restart.
type Memory struct {
	mu      sync.Mutex
	data    []byte
	saved   bool
	savedAt time.Time
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryWith returns a Memory store already holding data.
func NewMemoryWith(data []byte) *Memory {
	m := &Memory{}
	_ = m.Save(context.Background(), data)
	return m
}

func (m *Memory) Driver() Driver   { return DriverMemory }
func (m *Memory) Location() string { return "memory" }

func (m *Memory) Load(_ context.Context) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.saved {
		return nil, false, nil
	}
	return append([]byte(nil), m.data...), true, nil
}

func (m *Memory) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.saved = true
	m.savedAt = time.Now().UTC()
	return nil
}

func (m *Memory) Stat(_ context.Context) (Info, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.saved {
		return Info{}, false, nil
	}
	return Info{
		Driver:   DriverMemory,
		Location: m.Location(),
		Size:     int64(len(m.data)),
		Digest:   Digest(m.data),
		SavedAt:  m.savedAt,
	}, true, nil
}
