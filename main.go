// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/resload/internal/command"
	"github.com/staranto/resload/internal/config"
	mylog "github.com/staranto/resload/internal/log"
	"github.com/staranto/resload/internal/storage"
	"github.com/staranto/resload/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	args := os.Args

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = expandArgSets(args)
	}

	// Short-circuit --version/-v.
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return 0
		}
	}

	// Best-effort: pre-create the default cache directory when caching is
	// enabled. Non-fatal.
	if storage.Enabled() {
		if dir, ok := storage.Dir(""); ok {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}

// expandArgSets splices a named argument set from the config file in right
// after the subcommand. An "@name" argument selects <command>.<name>;
// without one, <command>.defaults is used if present.
//
//	load:
//	  defaults: ["--raw"]
//	  remote: ["--storage s3", "--bucket my-cache"]
func expandArgSets(args []string) []string {
	if len(args) < 2 || strings.HasPrefix(args[1], "-") {
		return args
	}

	for _, a := range args {
		if a == "--help" || a == "-h" {
			return args
		}
	}

	set := "defaults"
	rest := make([]string, 0, len(args))
	for _, a := range args[2:] {
		if strings.HasPrefix(a, "@") && len(a) > 1 && set == "defaults" {
			set = a[1:]
			continue
		}
		rest = append(rest, a)
	}

	config.Config.Namespace = ""
	setArgs, _ := config.GetStringSlice(args[1] + "." + set)

	out := make([]string, 0, len(args)+len(setArgs))
	out = append(out, args[:2]...)
	for _, arg := range setArgs {
		out = append(out, strings.Fields(arg)...)
	}
	out = append(out, rest...)

	log.Debugf("set=%s, args=%v", set, out)
	return out
}
