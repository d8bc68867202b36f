// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

/*
Package models defines the request, response, and domain types shared across
the API surface.

# Domain Types

The ledger is a single JSON document mapping poll ids to Poll values. A Poll
carries its classification (poll or jointStatement, derived from the id
prefix), an append-only vote list, and creation metadata. A Vote records the
capture time, the chosen option, the author (title, name, acting capacity),
and the id of the city whose token authorized it.

# Dispatch Requests

All write traffic arrives through a single action-dispatch endpoint. The
ActionRequest type is the union of every action's fields; each handler
validates only the fields its action requires.

# Error Envelope

Failures are reported as:

	{"message": "...", "details": "..."}

with the HTTP status carrying the error class (400 validation, 401/403 auth,
404 not found, 409 conflict, 429 lock busy, 500 storage).
*/
package models
