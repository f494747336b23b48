// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"encoding/json"
	"time"

	"github.com/apex/log"
)

// entry is one cached value as it is persisted. ExpireAt is in unix
// milliseconds.
type entry struct {
	ExpireAt int64  `json:"expireAt"`
	Value    string `json:"value"`
}

// remaining is the time left before e expires. An entry is fresh only while
// this is strictly positive.
func (e entry) remaining(now time.Time) int64 {
	return e.ExpireAt - now.UnixMilli()
}

func (e entry) fresh(now time.Time) bool {
	return e.remaining(now) > 0
}

// bucket maps a key to its entry.
type bucket map[string]entry

// decodeBucket parses raw. Anything that does not decode is an empty bucket.
func decodeBucket(raw string) bucket {
	b := bucket{}
	if raw == "" {
		return b
	}
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		log.WithError(err).Debug("discarding unreadable cache bucket")
		return bucket{}
	}
	if b == nil {
		// A literal "null" decodes to a nil map.
		return bucket{}
	}
	return b
}

func (b bucket) encode() (string, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Entry is a read-only view of a cached value for listings.
type Entry struct {
	Key      string
	Size     int
	ExpireAt time.Time
	Fresh    bool
}
