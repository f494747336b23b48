// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/apex/log"

	"github.com/staranto/resload/internal/storage"
)

const (
	// DefaultNamespace is the bucket used when no namespace is configured.
	DefaultNamespace = "resource-cache"
	// DefaultDuration is how long a put entry stays fresh (0.25 minutes).
	DefaultDuration = 15 * time.Second
)

// ErrWrite is returned when the bucket cannot be written back to storage.
var ErrWrite = errors.New("cache write failed")

// Store is an expiring key/value map persisted in one storage namespace.
// Every Put and Get does a full read-modify-write of the bucket; mu keeps
// those from interleaving inside one process. Writers in other processes
// are not coordinated and the last one to storage wins.
type Store struct {
	storage   storage.Storage
	namespace string
	duration  time.Duration
	now       func() time.Time

	mu sync.Mutex
}

// Option customizes a Store.
type Option func(*Store)

// WithDuration overrides DefaultDuration. Non-positive values are ignored.
func WithDuration(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.duration = d
		}
	}
}

// WithClock replaces time.Now. Tests use it to step through expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a Store over st. An empty namespace means DefaultNamespace.
func New(st storage.Storage, namespace string, opts ...Option) *Store {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	s := &Store{
		storage:   st,
		namespace: namespace,
		duration:  DefaultDuration,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Namespace() string {
	return s.namespace
}

func (s *Store) Duration() time.Duration {
	return s.duration
}

// Put sets key to value, expiring duration from now. An existing entry for
// key is overwritten.
func (s *Store) Put(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.read(ctx)
	b[key] = entry{
		ExpireAt: s.now().Add(s.duration).UnixMilli(),
		Value:    value,
	}

	if err := s.write(ctx, b); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	log.Debugf("cache put: %s/%s", s.namespace, key)
	return nil
}

// Get returns the value for key if it is still fresh. An expired entry is
// removed and reported as absent. Fresh reads leave the bucket untouched.
func (s *Store) Get(ctx context.Context, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.read(ctx)
	e, ok := b[key]
	if !ok {
		log.Debugf("cache miss: %s/%s", s.namespace, key)
		return "", false
	}

	if e.fresh(s.now()) {
		log.Debugf("cache hit: %s/%s", s.namespace, key)
		return e.Value, true
	}

	log.Debugf("cache expired: %s/%s", s.namespace, key)
	delete(b, key)
	if err := s.write(ctx, b); err != nil {
		// The stale entry is pruned again on the next read.
		log.WithError(err).Warnf("failed to prune %s/%s", s.namespace, key)
	}
	return "", false
}

// Purge removes every expired entry and returns how many were removed.
func (s *Store) Purge(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.read(ctx)
	now := s.now()
	removed := 0
	for k, e := range b {
		if !e.fresh(now) {
			delete(b, k)
			removed++
		}
	}

	if removed == 0 {
		return 0, nil
	}
	if err := s.write(ctx, b); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	log.Debugf("purged %d entries from %s", removed, s.namespace)
	return removed, nil
}

// Entries lists every entry in the bucket, expired ones included, sorted by
// key. It does not prune.
func (s *Store) Entries(ctx context.Context) []Entry {
	s.mu.Lock()
	b := s.read(ctx)
	s.mu.Unlock()

	now := s.now()
	entries := make([]Entry, 0, len(b))
	for k, e := range b {
		entries = append(entries, Entry{
			Key:      k,
			Size:     len(e.Value),
			ExpireAt: time.UnixMilli(e.ExpireAt),
			Fresh:    e.fresh(now),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// read loads the bucket. Unavailable or corrupt storage reads as empty.
func (s *Store) read(ctx context.Context) bucket {
	raw, ok, err := s.storage.GetItem(ctx, s.namespace)
	if err != nil {
		log.WithError(err).Debugf("treating %s as empty", s.namespace)
		return bucket{}
	}
	if !ok {
		return bucket{}
	}
	return decodeBucket(raw)
}

func (s *Store) write(ctx context.Context, b bucket) error {
	data, err := b.encode()
	if err != nil {
		return fmt.Errorf("failed to encode bucket: %w", err)
	}
	return s.storage.SetItem(ctx, s.namespace, data)
}
