// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// resload is the main package for the resload command line tool. It loads
// text resources from disk or the web through an expiring cache, wires the
// CLI and delegates to internal packages.
package main
