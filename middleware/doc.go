// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

/*
Package middleware provides HTTP helpers shared by all handlers: request
logging, the JSON response/error envelope, request body parsing, CORS, and
client IP extraction.

Error responses use the envelope:

	{"message": "...", "details": "..."}

where details is only present when there is diagnostic context safe to
expose.
*/
package middleware
