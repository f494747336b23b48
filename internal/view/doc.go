// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package view is the interactive screen behind `resload view`. An input
// line takes a resource id; entering it loads the resource through the
// cache and shows its extracted text.
package view
