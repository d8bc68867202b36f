// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

/*
Package lock serializes ledger mutations across stateless request handlers
that share nothing but the object store.

# Protocol

The lock is a single object holding "<epochMillis>,<holderId>". Acquire
follows a claim-settle-verify sequence:

 1. Read the lock object. A record younger than the timeout means the lock
    is validly held: return ErrBusy immediately, never block or spin.
 2. Write the claim unconditionally (the store has no compare-and-swap).
 3. Sleep a short settle delay, then re-read. The acquisition succeeded only
    if the surviving record names this holder.

Step 3 is a fencing approximation, not a guarantee: two claims written
within the same settle window can both verify. The window is tens of
milliseconds against a hold timeout of ten seconds.

# Self-Healing

A crashed holder is never cleaned up explicitly. Its record simply ages past
the timeout, after which any holder may overwrite it.

# Release

Release verifies the current record names the releasing holder before
deleting. A holder that outlived its own timeout cannot delete a lock that
was legitimately claimed by someone else in the meantime; it gets ErrNotHeld
instead.
*/
package lock
