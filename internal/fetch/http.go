// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/hashicorp/go-cleanhttp"
)

// HTTP fetches identifiers with a GET request. Only a 200 response counts
// as success.
type HTTP struct {
	client *http.Client
}

// NewHTTP returns an HTTP transport on a pooled client. A positive timeout
// bounds each request.
func NewHTTP(timeout time.Duration) *HTTP {
	client := cleanhttp.DefaultPooledClient()
	if timeout > 0 {
		client.Timeout = timeout
	}
	return &HTTP{client: client}
}

// NewHTTPWithClient is for callers that bring their own client.
func NewHTTPWithClient(client *http.Client) *HTTP {
	return &HTTP{client: client}
}

func (h *HTTP) Fetch(ctx context.Context, id string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, id, nil)
	if err != nil {
		return "", &Error{ID: id, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", &Error{ID: id, Err: fmt.Errorf("failed to execute request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &Error{ID: id, StatusCode: resp.StatusCode}
	}

	var doc bytes.Buffer
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return "", &Error{ID: id, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	log.Debugf("fetched %s (%d bytes)", id, doc.Len())
	return doc.String(), nil
}
