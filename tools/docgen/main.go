// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/urfave/cli/v3"

	"github.com/staranto/resload/internal/command"
)

// Doc generator. Walks the resload command tree and, for every leaf command,
// writes:
//   - docs/commands/resload-<cmd>.md
//   - docs/man/share/man1/resload-<cmd>.1 via md2man
//   - docs/tldr/resload-<cmd>.md

type page struct {
	// name is the dashed command path, e.g. "cache-ls".
	name string
	cmd  *cli.Command
}

func main() {
	var (
		repoRoot           string
		writeOnlyIfChanged bool
	)

	flag.StringVar(&repoRoot, "root", ".", "repo root (default current dir)")
	flag.BoolVar(&writeOnlyIfChanged, "only-if-changed", true, "only write files if content changed")
	flag.Parse()

	// Keep the user's config out of generated defaults.
	_ = os.Setenv("RESLOAD_CFG", "")
	_ = os.Setenv("XDG_CONFIG_HOME", os.TempDir())

	app, err := command.InitApp(context.Background(), []string{"resload"})
	if err != nil {
		fatalf("building command tree: %v", err)
	}

	dirs := map[string]string{
		"md":   filepath.Join(repoRoot, "docs", "commands"),
		"man":  filepath.Join(repoRoot, "docs", "man", "share", "man1"),
		"tldr": filepath.Join(repoRoot, "docs", "tldr"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			fatalf("creating output dir %s: %v", d, err)
		}
	}

	pages := collect(app.Commands, nil)
	if len(pages) == 0 {
		fatalf("no commands found")
	}

	for _, p := range pages {
		md := renderMarkdown(p, app.Flags)

		mdPath := filepath.Join(dirs["md"], "resload-"+p.name+".md")
		if err := writeFileIfChanged(mdPath, []byte(md), writeOnlyIfChanged); err != nil {
			fatalf("writing markdown for %s: %v", p.name, err)
		}

		manPath := filepath.Join(dirs["man"], "resload-"+p.name+".1")
		if err := writeFileIfChanged(manPath, md2man.Render([]byte(md)), writeOnlyIfChanged); err != nil {
			fatalf("writing man page for %s: %v", p.name, err)
		}

		tldrPath := filepath.Join(dirs["tldr"], "resload-"+p.name+".md")
		if err := writeFileIfChanged(tldrPath, []byte(buildTLDR(p)), writeOnlyIfChanged); err != nil {
			fatalf("writing TLDR for %s: %v", p.name, err)
		}
	}
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

// collect flattens the tree into leaf command pages. Hidden commands are
// skipped.
func collect(cmds []*cli.Command, parents []string) []page {
	var pages []page
	for _, c := range cmds {
		if c.Hidden {
			continue
		}
		path := append(append([]string{}, parents...), c.Name)
		if len(c.Commands) > 0 {
			pages = append(pages, collect(c.Commands, path)...)
			continue
		}
		pages = append(pages, page{name: strings.Join(path, "-"), cmd: c})
	}
	return pages
}

func writeFileIfChanged(path string, new []byte, onlyIfChanged bool) error {
	if !onlyIfChanged {
		return os.WriteFile(path, new, 0o644)
	}
	old, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return os.WriteFile(path, new, 0o644)
		}
		return err
	}
	if bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(new)) {
		return nil
	}
	return os.WriteFile(path, new, 0o644)
}

func synopsis(p page) string {
	if p.cmd.UsageText != "" {
		return p.cmd.UsageText
	}
	s := "resload " + strings.ReplaceAll(p.name, "-", " ") + " [options]"
	if p.cmd.ArgsUsage != "" {
		s += " " + p.cmd.ArgsUsage
	}
	return s
}

func renderMarkdown(p page, global []cli.Flag) string {
	var b strings.Builder

	b.WriteString("# resload-" + p.name + "\n\n")
	b.WriteString("## Short description\n\n")
	b.WriteString(p.cmd.Usage + "\n\n")
	b.WriteString("## Synopsis\n\n")
	b.WriteString("```\n" + synopsis(p) + "\n```\n\n")

	if len(p.cmd.Flags) > 0 {
		b.WriteString("## Flags\n\n")
		writeFlags(&b, p.cmd.Flags)
		b.WriteString("\n")
	}

	if len(global) > 0 {
		b.WriteString("## Global flags\n\n")
		writeFlags(&b, global)
	}

	return b.String()
}

func writeFlags(b *strings.Builder, flags []cli.Flag) {
	for _, f := range flags {
		names := append([]string{}, f.Names()...)
		for i, n := range names {
			if len(n) == 1 {
				names[i] = "-" + n
			} else {
				names[i] = "--" + n
			}
		}
		line := "- `" + strings.Join(names, ", ") + "`"
		if u, ok := f.(interface{ GetUsage() string }); ok && u.GetUsage() != "" {
			line += ": " + u.GetUsage()
		}
		b.WriteString(line + "\n")
	}
}

func buildTLDR(p page) string {
	var b strings.Builder
	b.WriteString("# resload-" + p.name + "\n\n")
	b.WriteString("> " + p.cmd.Usage + ".\n")
	b.WriteString("> More information: https://github.com/staranto/resload.\n\n")
	if p.cmd.Usage != "" {
		b.WriteString("- " + strings.ToUpper(p.cmd.Usage[:1]) + p.cmd.Usage[1:] + ":\n\n")
		b.WriteString("`" + sanitizeCommand(synopsis(p)) + "`\n\n")
	}
	b.WriteString("- Show help for the command:\n\n")
	b.WriteString("`resload " + strings.ReplaceAll(p.name, "-", " ") + " --help`\n")
	return b.String()
}

func sanitizeCommand(s string) string {
	// Compress runs of whitespace.
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
