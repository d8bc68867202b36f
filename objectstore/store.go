// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package objectstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotExist is returned by Get when no object is stored under the key.
var ErrNotExist = errors.New("object does not exist")

// Store is a key-addressed blob store with strong read-after-write
// visibility per key. It offers no atomic put-if-unmodified; callers that
// need mutual exclusion coordinate through a lock object (see the lock
// package).
type Store interface {
	// Get returns the full object bytes, or ErrNotExist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put writes the full object, replacing any previous version.
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object is stored under the key.
	Exists(ctx context.Context, key string) (bool, error)

	// SignedPutURL issues a time-limited credential that lets the holder
	// write the object directly, bypassing this process.
	SignedPutURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// PublicURL returns the stable, publicly reachable read URL for the key.
	// It does not check that the object exists.
	PublicURL(key string) string
}
