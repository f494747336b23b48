// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package loader loads a resource's text through an expiring cache, fetching
// from the origin only when the cached copy is missing or stale.
package loader
