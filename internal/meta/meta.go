// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"github.com/staranto/resload/internal/config"
)

// Meta is carried on the root command and shared by every subcommand.
type Meta struct {
	Args   []string
	Config config.Type
	// StartingDir is where relative resource paths resolve from.
	StartingDir string
}
