// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/apex/log"

	"github.com/staranto/resload/internal/cache"
	"github.com/staranto/resload/internal/fetch"
)

// Result is the single outcome of a Load. Exactly one of Text and Err is
// meaningful.
type Result struct {
	Text string
	// Cached is true when Text came from the store without a fetch.
	Cached bool
	Err    error
}

// Loader serves resources from the store while they are fresh and fetches
// them through the transport otherwise.
type Loader struct {
	store     *cache.Store
	transport fetch.Transport
}

func New(store *cache.Store, tr fetch.Transport) *Loader {
	return &Loader{store: store, transport: tr}
}

// Store exposes the store the loader reads through.
func (l *Loader) Store() *cache.Store {
	return l.store
}

// Load resolves id. The returned channel yields exactly one Result and is
// then closed. A cache hit resolves before Load returns; a miss fetches on
// a separate goroutine. Concurrent loads of one id are not coalesced.
func (l *Loader) Load(ctx context.Context, id string) <-chan Result {
	ch := make(chan Result, 1)

	if text, ok := l.store.Get(ctx, id); ok {
		ch <- Result{Text: text, Cached: true}
		close(ch)
		return ch
	}

	go func() {
		defer close(ch)
		ch <- l.fetch(ctx, id)
	}()

	return ch
}

// LoadFunc waits for Load and calls exactly one of onSuccess or onError.
// Either handler may be nil.
func (l *Loader) LoadFunc(ctx context.Context, id string, onSuccess func(string), onError func(error)) {
	res := <-l.Load(ctx, id)
	if res.Err != nil {
		if onError != nil {
			onError(res.Err)
		}
		return
	}
	if onSuccess != nil {
		onSuccess(res.Text)
	}
}

// Fetch is the blocking form of Load.
func (l *Loader) Fetch(ctx context.Context, id string) (string, error) {
	res := <-l.Load(ctx, id)
	return res.Text, res.Err
}

func (l *Loader) fetch(ctx context.Context, id string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("transport panicked fetching %s: %v", id, r)
			res = Result{Err: &fetch.Error{ID: id, Err: fmt.Errorf("panic: %v", r)}}
		}
	}()

	text, err := l.transport.Fetch(ctx, id)
	if err != nil {
		log.WithError(err).Debugf("fetch failed: %s", id)
		return Result{Err: wrapFetchErr(id, err)}
	}

	if err := l.store.Put(ctx, id, text); err != nil {
		log.WithError(err).Warnf("failed to write %s to cache", id)
	}

	return Result{Text: text}
}

// wrapFetchErr makes sure every failure matches fetch.ErrFetch, whatever
// the transport returned.
func wrapFetchErr(id string, err error) error {
	if errors.Is(err, fetch.ErrFetch) {
		return err
	}
	return &fetch.Error{ID: id, Err: err}
}
