// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"context"
	"os"
	"sync"
)

// Storage is the durable slot a cache bucket lives in. Each namespace holds
// exactly one serialized blob.
type Storage interface {
	// GetItem returns the blob stored under ns. A missing namespace is
	// reported as ("", false, nil), not as an error.
	GetItem(ctx context.Context, ns string) (string, bool, error)
	// SetItem replaces the blob stored under ns.
	SetItem(ctx context.Context, ns string, data string) error
}

// Enabled returns true unless RESLOAD_CACHE explicitly disables it ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("RESLOAD_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// Memory keeps blobs in process memory. Nothing survives the process.
type Memory struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

func (m *Memory) GetItem(_ context.Context, ns string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.items[ns]
	return data, ok, nil
}

func (m *Memory) SetItem(_ context.Context, ns string, data string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[ns] = data
	return nil
}

// Discard never stores anything. It stands in when caching is disabled.
type Discard struct{}

func (Discard) GetItem(context.Context, string) (string, bool, error) {
	return "", false, nil
}

func (Discard) SetItem(context.Context, string, string) error {
	return nil
}
