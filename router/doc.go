// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

/*
Package router wires the HTTP routes using Go 1.22+ method routing.

POST /api carries all actions; GET /votes and GET /polls/{id}/metadata
expose the lock-free reads directly; /health and /metrics serve operations.
*/
package router
