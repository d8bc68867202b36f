// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

/*
Package main provides the entry point for the cityledger API server.

Cityledger keeps a shared, append-mostly ledger of city polls and joint
statements as a single JSON document in a key-addressed object store, and
serializes all writes to it through a cooperative timeout lock. Request
handlers are stateless and share nothing in memory, so every bit of
coordination happens through the store.

# Starting the Server

The server needs an object store location:

	CITYLEDGER_BUCKET=gcs://cityledger-prod go run .

Or with flags:

	go run . -b memory:// -p 3480

memory:// runs everything in-process for development; gcs://<bucket> is the
production backend.

# Configuration

See package cliparse for the full list of settings. A .env file in the
working directory is loaded before parsing.

# Architecture

  - objectstore: key-addressed blob store (GCS or in-memory)
  - lock: cooperative timeout lock over a single lock object
  - ledger: the poll/vote document and its read-modify-write cycle
  - tokens: token-to-city resolution with fire-and-forget access logging
  - attachments: content-addressed upload slots with signed PUT URLs
  - handlers: action-dispatch API surface
  - router: route definitions using Go 1.22+ routing
  - middleware: logging, JSON envelope, CORS
  - accesslog: SQL-backed access log sink
  - metrics: prometheus counters for lock contention and write volume
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
