// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

/*
Package ledger owns the shared poll/vote document and its invariants.

The entire ledger is one JSON object in the blob store, mapping poll ids to
polls. Mutations follow a fixed cycle: acquire the global lock, read the
whole document (absent reads as empty), mutate in memory, write the whole
document back, release the lock. There are no partial writes.

Invariants:

  - A poll is created at most once; CreatePoll fails on a taken id.
  - Votes only append, in arrival order; appended votes never change.
  - A vote on an unknown poll first creates an empty shell for it
    (auto-create-on-first-vote), classified by the id prefix rule.

Reads (PollMetadata, AllVotes) never take the lock. Because each mutation is
a single whole-document put, a concurrent reader sees either the old or the
new document, never a torn mix.
*/
package ledger
