// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package command defines the resload CLI. It wires flags, validators and
// actions for the load, view and cache subcommands.
package command
