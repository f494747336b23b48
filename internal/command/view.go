// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/staranto/resload/internal/parser"
	"github.com/staranto/resload/internal/view"
)

func ViewCommandBuilder() *cli.Command {
	return &cli.Command{
		Name:      "view",
		Usage:     "interactively load resources and show their text",
		UsageText: "resload view [options] [<id>]",
		Action:    ViewCommandAction,
	}
}

func ViewCommandAction(ctx context.Context, cmd *cli.Command) error {
	l, err := NewLoader(ctx, cmd)
	if err != nil {
		return err
	}

	m := view.New(ctx, l, parser.New().Parse, cmd.Args().First())
	return view.Run(ctx, m, os.Stdin, cmd.Root().Writer)
}
