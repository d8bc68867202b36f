// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

/*
Package handlers implements the action-dispatch API surface.

All write traffic arrives as POST /api with a body naming one action:

	{"action": "vote", "token": "...", "pollId": "...", ...}

The Dispatcher routes to per-concern handlers (auth, polls, voting,
attachments). Every handler follows the same discipline:

 1. Validate the request fields (400 on failure).
 2. Resolve the token for auth-required actions (401 missing, 403 invalid).
 3. Only then touch the ledger, which may contend for the lock (429 busy).

Steps 1 and 2 never reach the lock, so malformed or unauthorized requests
cannot burn lock availability for valid ones.

Read-only actions (getVotes, getPollMetadata, getAttachmentUrl) skip the
token and the lock entirely.
*/
package handlers
