// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
)

// File reads identifiers from the local filesystem. Relative paths resolve
// against Root.
type File struct {
	Root string
}

func (f File) Fetch(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &Error{ID: id, Err: err}
	}

	p := id
	if strings.HasPrefix(strings.ToLower(id), "file:") {
		u, err := url.Parse(id)
		if err != nil {
			return "", &Error{ID: id, Err: err}
		}
		p = u.Path
	}
	if !filepath.IsAbs(p) && f.Root != "" {
		p = filepath.Join(f.Root, p)
	}

	b, err := os.ReadFile(p)
	if err != nil {
		return "", &Error{ID: id, Err: err}
	}

	log.Debugf("read %s (%d bytes)", p, len(b))
	return string(b), nil
}
