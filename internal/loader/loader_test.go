// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package loader

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/resload/internal/cache"
	"github.com/staranto/resload/internal/fetch"
	"github.com/staranto/resload/internal/storage"
)

// spy records every fetch and answers from a canned table.
type spy struct {
	mu     sync.Mutex
	calls  []string
	bodies map[string]string
	err    error
}

func (s *spy) Fetch(_ context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, id)
	if s.err != nil {
		return "", s.err
	}
	body, ok := s.bodies[id]
	if !ok {
		return "", &fetch.Error{ID: id, StatusCode: 404}
	}
	return body, nil
}

func (s *spy) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type failingSet struct {
	*storage.Memory
}

func (failingSet) SetItem(context.Context, string, string) error {
	return errors.New("disk full")
}

func newStore(now func() time.Time) *cache.Store {
	return cache.New(storage.NewMemory(), cache.DefaultNamespace,
		cache.WithDuration(time.Second), cache.WithClock(now))
}

func TestLoad_CacheHitSkipsTransport(t *testing.T) {
	ctx := context.Background()
	store := newStore(time.Now)
	require.NoError(t, store.Put(ctx, "a.txt", "cached"))

	tr := &spy{bodies: map[string]string{"a.txt": "fresh"}}
	l := New(store, tr)

	res := <-l.Load(ctx, "a.txt")
	require.NoError(t, res.Err)
	assert.Equal(t, "cached", res.Text)
	assert.True(t, res.Cached)
	assert.Zero(t, tr.count())
}

func TestLoad_MissThenPopulate(t *testing.T) {
	ctx := context.Background()
	store := newStore(time.Now)
	tr := &spy{bodies: map[string]string{"a.txt": "abc"}}
	l := New(store, tr)

	res := <-l.Load(ctx, "a.txt")
	require.NoError(t, res.Err)
	assert.Equal(t, "abc", res.Text)
	assert.False(t, res.Cached)

	v, ok := store.Get(ctx, "a.txt")
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	res = <-l.Load(ctx, "a.txt")
	assert.True(t, res.Cached)
	assert.Equal(t, 1, tr.count())
}

func TestLoad_ExpiredRefetches(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)
	store := newStore(func() time.Time { return now })
	tr := &spy{bodies: map[string]string{"a.txt": "abc"}}
	l := New(store, tr)

	_, err := l.Fetch(ctx, "a.txt")
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	text, err := l.Fetch(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "abc", text)
	assert.Equal(t, 2, tr.count())
}

func TestLoad_FailureLeavesCacheUntouched(t *testing.T) {
	ctx := context.Background()
	store := newStore(time.Now)
	tr := &spy{bodies: map[string]string{}}
	l := New(store, tr)

	res := <-l.Load(ctx, "missing.txt")
	assert.ErrorIs(t, res.Err, fetch.ErrFetch)
	assert.Empty(t, res.Text)

	_, ok := store.Get(ctx, "missing.txt")
	assert.False(t, ok)
	assert.Empty(t, store.Entries(ctx))
}

func TestLoad_PlainTransportErrorIsWrapped(t *testing.T) {
	l := New(newStore(time.Now), &spy{err: errors.New("connection reset")})

	_, err := l.Fetch(context.Background(), "x.txt")
	assert.ErrorIs(t, err, fetch.ErrFetch)
	assert.ErrorContains(t, err, "connection reset")
}

func TestLoad_CacheWriteFailureStillSucceeds(t *testing.T) {
	ctx := context.Background()
	store := cache.New(failingSet{storage.NewMemory()}, "ns")
	l := New(store, &spy{bodies: map[string]string{"a.txt": "abc"}})

	text, err := l.Fetch(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "abc", text)
}

func TestLoad_TransportPanicBecomesError(t *testing.T) {
	tr := fetch.Func(func(context.Context, string) (string, error) {
		panic("boom")
	})
	l := New(newStore(time.Now), tr)

	var res Result
	assert.NotPanics(t, func() {
		res = <-l.Load(context.Background(), "a.txt")
	})
	assert.ErrorIs(t, res.Err, fetch.ErrFetch)
	assert.ErrorContains(t, res.Err, "boom")
}

func TestLoad_ChannelResolvesOnce(t *testing.T) {
	l := New(newStore(time.Now), &spy{bodies: map[string]string{"a.txt": "abc"}})

	ch := l.Load(context.Background(), "a.txt")
	got := 0
	for range ch {
		got++
	}
	assert.Equal(t, 1, got)
}

func TestLoadFunc(t *testing.T) {
	ctx := context.Background()

	t.Run("success calls only onSuccess", func(t *testing.T) {
		l := New(newStore(time.Now), &spy{bodies: map[string]string{"a.txt": "abc"}})
		var ok, failed int
		var text string
		l.LoadFunc(ctx, "a.txt",
			func(s string) { ok++; text = s },
			func(error) { failed++ })
		assert.Equal(t, 1, ok)
		assert.Zero(t, failed)
		assert.Equal(t, "abc", text)
	})

	t.Run("failure calls only onError", func(t *testing.T) {
		l := New(newStore(time.Now), &spy{bodies: map[string]string{}})
		var ok, failed int
		l.LoadFunc(ctx, "a.txt",
			func(string) { ok++ },
			func(error) { failed++ })
		assert.Zero(t, ok)
		assert.Equal(t, 1, failed)
	})

	t.Run("nil handlers are ignored", func(t *testing.T) {
		l := New(newStore(time.Now), &spy{bodies: map[string]string{}})
		assert.NotPanics(t, func() {
			l.LoadFunc(ctx, "a.txt", nil, nil)
		})
	})
}

func TestLoad_ConcurrentCallsEachResolve(t *testing.T) {
	ctx := context.Background()
	tr := &spy{bodies: map[string]string{"a.txt": "abc", "b.txt": "def"}}
	l := New(newStore(time.Now), tr)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		id := "a.txt"
		if i%2 == 1 {
			id = "b.txt"
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Fetch(ctx, id)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	for _, id := range []string{"a.txt", "b.txt"} {
		_, ok := l.Store().Get(ctx, id)
		assert.True(t, ok, "both ids must end up cached: %s", id)
	}
}
