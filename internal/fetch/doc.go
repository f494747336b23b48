// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package fetch contains the transports that retrieve a resource's raw text:
// HTTP(S) and local files, routed by URL scheme.
package fetch
