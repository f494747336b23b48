// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/resload/internal/loader"
	"github.com/staranto/resload/internal/parser"
)

func LoadCommandBuilder() *cli.Command {
	return &cli.Command{
		Name:      "load",
		Usage:     "load resources through the cache and print their text",
		UsageText: "resload load [options] <id> [<id>...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "raw",
				Aliases:     []string{"r"},
				Usage:       "print the raw resource instead of its extracted text",
				HideDefault: true,
			},
		},
		Action: LoadCommandAction,
	}
}

// LoadCommandAction starts every load at once and prints results in
// argument order. Any failure is reported after the rest are printed.
func LoadCommandAction(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return errors.New("missing resource id")
	}

	l, err := NewLoader(ctx, cmd)
	if err != nil {
		return err
	}

	pending := make([]<-chan loader.Result, len(ids))
	for i, id := range ids {
		pending[i] = l.Load(ctx, id)
	}

	p := parser.New()
	w := cmd.Root().Writer

	var failed []string
	for i, ch := range pending {
		id := ids[i]
		res := <-ch
		if res.Err != nil {
			log.WithError(res.Err).Debugf("load %s", id)
			failed = append(failed, id)
			continue
		}

		log.WithField("cached", res.Cached).Debugf("loaded %s", id)

		text := res.Text
		if !cmd.Bool("raw") {
			text = p.Parse(id, text)
		}
		fmt.Fprintln(w, text)
	}

	if len(failed) > 0 {
		return fmt.Errorf("could not load %s", strings.Join(failed, ", "))
	}

	return nil
}
