// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

/*
Package objectstore abstracts the key-addressed blob store that holds all
shared state: the poll ledger document, the lock object, the token registry,
and uploaded attachments.

# Consistency Contract

Implementations must provide strong read-after-write visibility for any
individual key. They are not expected to provide transactions or conditional
writes; the lock package builds cooperative mutual exclusion on top of plain
Get/Put/Delete.

# Implementations

GCS stores objects in a Google Cloud Storage bucket and issues V4 signed
URLs for direct uploads:

	store, err := objectstore.NewGCS(ctx,
	    objectstore.WithBucket("cityledger-prod"),
	    objectstore.WithLogger(logger),
	)

Memory is a mutex-guarded map used by tests and development mode.
*/
package objectstore
