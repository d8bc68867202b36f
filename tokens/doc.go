// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

/*
Package tokens resolves opaque access tokens to authorized city records.

The token registry is a single JSON object in the blob store mapping token
strings to cities. Every mutating API action resolves its token before
anything else happens, so authorization failures never reach the lock.

A successful resolution triggers a background access-log append. The append
carries its own timeout and its failure is logged, not propagated.
*/
package tokens
