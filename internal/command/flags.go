// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"strings"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/resload/internal/cache"
	"github.com/staranto/resload/internal/config"
)

// DefaultTimeout bounds a single HTTP fetch.
const DefaultTimeout = 30 * time.Second

// NewGlobalFlags builds the root flags. Each flag reads, in order, the
// command line, its RESLOAD_* env var and then the config file at path.
func NewGlobalFlags(path string) []cli.Flag {
	duration, _ := config.GetDuration("cache.duration", cache.DefaultDuration)
	timeout, _ := config.GetDuration("http.timeout", DefaultTimeout)

	return []cli.Flag{
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("color", altsrc.StringSourcer(path)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:  "namespace",
			Usage: "cache namespace (bucket) to read and write",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RESLOAD_NAMESPACE"),
				yaml.YAML("cache.namespace", altsrc.StringSourcer(path)),
			),
			Value: cache.DefaultNamespace,
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.DurationFlag{
			Name:  "duration",
			Usage: "how long a loaded resource stays fresh",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RESLOAD_DURATION"),
			),
			Value: duration,
			Validator: func(value time.Duration) error {
				return FlagValidators(value, PositiveDurationValidator)
			},
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "timeout for a single http fetch",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RESLOAD_TIMEOUT"),
			),
			Value: timeout,
			Validator: func(value time.Duration) error {
				return FlagValidators(value, PositiveDurationValidator)
			},
		},
		&cli.StringFlag{
			Name:  "storage",
			Usage: "cache storage: file, s3 or memory",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RESLOAD_STORAGE"),
				yaml.YAML("storage.type", altsrc.StringSourcer(path)),
			),
			Value: "file",
			Validator: func(value string) error {
				return FlagValidators(value, StorageValidator)
			},
		},
		storageFlag("dir", "base directory for file storage", "cache.dir", path),
		storageFlag("bucket", "s3 bucket for s3 storage", "storage.bucket", path),
		storageFlag("prefix", "s3 key prefix for s3 storage", "storage.prefix", path),
		storageFlag("region", "aws region for s3 storage", "storage.region", path),
		storageFlag("profile", "aws shared config profile for s3 storage", "storage.profile", path),
		storageFlag("endpoint", "s3 compatible endpoint url", "storage.endpoint", path),
	}
}

// storageFlag builds a string flag backed by RESLOAD_<NAME> and key.
func storageFlag(name, usage, key, path string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  name,
		Usage: usage,
		Sources: cli.NewValueSourceChain(
			cli.EnvVar(envName(name)),
			yaml.YAML(key, altsrc.StringSourcer(path)),
		),
	}
}

// NewListFlags builds the cache ls flags. ns is tried as a config prefix
// before the bare key.
func NewListFlags(ns, path string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to entries",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"output", altsrc.StringSourcer(path)),
				yaml.YAML("output", altsrc.StringSourcer(path)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort entries by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"sort", altsrc.StringSourcer(path)),
			),
			Value: "key",
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"titles", altsrc.StringSourcer(path)),
				yaml.YAML("titles", altsrc.StringSourcer(path)),
			),
			Value: false,
		},
	}
}

func envName(flag string) string {
	return "RESLOAD_" + strings.ToUpper(flag)
}
