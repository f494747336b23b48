// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package cache provides an expiring key/value store layered on durable
// storage. Each store owns one namespace ("bucket") that is persisted as a
// single JSON document. Entries expire lazily: an expired entry is pruned the
// next time it is read, never in the background.
package cache
