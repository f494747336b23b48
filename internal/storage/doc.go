// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package storage provides the durable slots cache buckets are persisted in:
// a local directory, an S3 bucket, process memory, or nothing at all.
package storage
