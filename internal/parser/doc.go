// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package parser extracts display text from a loaded resource, choosing the
// format by the identifier's file extension.
package parser
