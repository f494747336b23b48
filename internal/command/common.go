// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/resload/internal/aws"
	"github.com/staranto/resload/internal/cache"
	"github.com/staranto/resload/internal/fetch"
	"github.com/staranto/resload/internal/loader"
	"github.com/staranto/resload/internal/meta"
	"github.com/staranto/resload/internal/storage"
)

// GetMeta returns the Meta stored on the root command.
func GetMeta(cmd *cli.Command) meta.Meta {
	if m, ok := cmd.Root().Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// NewStorage selects the storage backend named by --storage. When caching
// is disabled through RESLOAD_CACHE nothing is stored.
func NewStorage(ctx context.Context, cmd *cli.Command) (storage.Storage, error) {
	if !storage.Enabled() {
		log.Debug("cache disabled, using discard storage")
		return storage.Discard{}, nil
	}

	switch kind := cmd.String("storage"); kind {
	case "memory":
		return storage.NewMemory(), nil
	case "s3":
		client, err := aws.NewS3Client(ctx,
			aws.WithProfile(cmd.String("profile")),
			aws.WithRegion(cmd.String("region")),
			aws.WithEndpoint(cmd.String("endpoint")),
		)
		if err != nil {
			return nil, err
		}
		return storage.NewS3(client, cmd.String("bucket"), cmd.String("prefix"))
	case "", "file":
		dir, ok := storage.Dir(cmd.String("dir"))
		if !ok {
			log.Warn("no cache directory available, using discard storage")
			return storage.Discard{}, nil
		}
		return storage.NewFile(dir)
	default:
		return nil, fmt.Errorf("unsupported storage: %s", kind)
	}
}

// NewStore builds the cache.Store for the configured namespace and duration.
func NewStore(ctx context.Context, cmd *cli.Command) (*cache.Store, error) {
	st, err := NewStorage(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	store := cache.New(st, cmd.String("namespace"), cache.WithDuration(cmd.Duration("duration")))
	log.WithField("namespace", store.Namespace()).
		WithField("duration", store.Duration()).
		Debug("store ready")

	return store, nil
}

// NewLoader builds a Loader over the configured store. Relative resource
// paths resolve against the starting directory.
func NewLoader(ctx context.Context, cmd *cli.Command) (*loader.Loader, error) {
	store, err := NewStore(ctx, cmd)
	if err != nil {
		return nil, err
	}

	tr := fetch.NewMux(
		fetch.NewHTTP(cmd.Duration("timeout")),
		fetch.File{Root: GetMeta(cmd).StartingDir},
	)

	return loader.New(store, tr), nil
}
