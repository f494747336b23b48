// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrFetch matches every failure reported by a Transport.
var ErrFetch = errors.New("fetch failed")

// Transport retrieves the text behind an identifier. It reports exactly one
// outcome: the text, or an error.
type Transport interface {
	Fetch(ctx context.Context, id string) (string, error)
}

// Func adapts a plain function to Transport.
type Func func(ctx context.Context, id string) (string, error)

func (f Func) Fetch(ctx context.Context, id string) (string, error) {
	return f(ctx, id)
}

// Error describes a failed fetch. StatusCode is zero when no response was
// received.
type Error struct {
	ID         string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("failed to fetch %s: status %d: %v", e.ID, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("failed to fetch %s: status %d", e.ID, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("failed to fetch %s: %v", e.ID, e.Err)
	}
	return "failed to fetch " + e.ID
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrFetch) match any *Error.
func (e *Error) Is(target error) bool {
	return target == ErrFetch
}

// Mux picks a transport by URL scheme. Identifiers without a scheme are
// local paths.
type Mux struct {
	schemes map[string]Transport
}

// NewMux routes http and https to web and file (and bare paths) to local.
func NewMux(web, local Transport) *Mux {
	return &Mux{schemes: map[string]Transport{
		"http":  web,
		"https": web,
		"file":  local,
		"":      local,
	}}
}

// Handle registers tr for scheme, replacing any existing route.
func (m *Mux) Handle(scheme string, tr Transport) {
	m.schemes[strings.ToLower(scheme)] = tr
}

func (m *Mux) Fetch(ctx context.Context, id string) (string, error) {
	tr, ok := m.schemes[scheme(id)]
	if !ok || tr == nil {
		return "", &Error{ID: id, Err: fmt.Errorf("unsupported scheme %q", scheme(id))}
	}
	return tr.Fetch(ctx, id)
}

// scheme returns the lowercased URL scheme of id. Windows drive letters
// ("C:\...") parse as a one letter scheme and are treated as paths.
func scheme(id string) string {
	u, err := url.Parse(id)
	if err != nil || len(u.Scheme) < 2 {
		return ""
	}
	return strings.ToLower(u.Scheme)
}
