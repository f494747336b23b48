// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
)

const fileExtension = ".json"

// File stores each namespace as one file beneath a base directory.
type File struct {
	dir string
}

// Dir resolves the base cache directory.
// Precedence:
//  1. RESLOAD_CACHE_DIR, if set and non-empty
//  2. fallback, if non-empty (usually cache.dir from the config file)
//  3. os.UserCacheDir()/resload
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir(fallback string) (string, bool) {
	if c, ok := os.LookupEnv("RESLOAD_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if fallback != "" {
		return fallback, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "resload"), true
	}
	return "", false
}

// NewFile returns file storage rooted at dir, creating it if needed.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &File{dir: dir}, nil
}

// Path returns where the blob for ns lives on disk.
func (f *File) Path(ns string) string {
	return filepath.Join(f.dir, encodeKey(ns)+fileExtension)
}

func (f *File) GetItem(_ context.Context, ns string) (string, bool, error) {
	b, err := os.ReadFile(f.Path(ns))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read cache file: %w", err)
	}
	return string(b), true, nil
}

// SetItem writes to a temp file and renames it into place so readers never
// see a half-written bucket.
func (f *File) SetItem(_ context.Context, ns string, data string) error {
	p := f.Path(ns)
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, []byte(data), os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			log.WithError(rmErr).Debugf("failed to remove %s", tmp)
		}
		return fmt.Errorf("failed to rename cache file: %w", err)
	}
	log.Debugf("wrote cache file %s", p)
	return nil
}

// encodeKey hashes k with MD5 and returns the hex string.
func encodeKey(k string) string {
	h := md5.New()
	_, _ = h.Write([]byte(k))
	return hex.EncodeToString(h.Sum(nil))
}
