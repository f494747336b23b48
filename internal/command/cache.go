// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/staranto/resload/internal/output"
)

func CacheCommandBuilder(path string) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "inspect and maintain the cache namespace",
		Commands: []*cli.Command{
			{
				Name:   "ls",
				Usage:  "list entries in the namespace",
				Flags:  NewListFlags("ls", path),
				Action: CacheLsAction,
			},
			{
				Name:      "get",
				Usage:     "print a fresh cached value",
				ArgsUsage: "<id>",
				Action:    CacheGetAction,
			},
			{
				Name:   "purge",
				Usage:  "remove expired entries",
				Action: CachePurgeAction,
			},
		},
	}
}

func CacheLsAction(ctx context.Context, cmd *cli.Command) error {
	store, err := NewStore(ctx, cmd)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer

	color := cmd.Bool("color")
	if !cmd.IsSet("color") {
		if f, ok := w.(*os.File); ok {
			color = output.IsTerminal(f)
		}
	}

	return output.WriteEntries(w, store.Entries(ctx), time.Now(), output.Options{
		Filter: cmd.String("filter"),
		Sort:   cmd.String("sort"),
		Color:  color,
		Titles: cmd.Bool("titles"),
		Format: cmd.String("output"),
	})
}

func CacheGetAction(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return errors.New("missing resource id")
	}

	store, err := NewStore(ctx, cmd)
	if err != nil {
		return err
	}

	value, ok := store.Get(ctx, id)
	if !ok {
		return fmt.Errorf("not cached: %s", id)
	}

	fmt.Fprintln(cmd.Root().Writer, value)
	return nil
}

func CachePurgeAction(ctx context.Context, cmd *cli.Command) error {
	store, err := NewStore(ctx, cmd)
	if err != nil {
		return err
	}

	n, err := store.Purge(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Root().Writer, "purged %d expired entries from %s\n", n, store.Namespace())
	return nil
}
