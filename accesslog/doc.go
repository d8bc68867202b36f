// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

/*
Package accesslog records which city performed which action.

Appends are strictly fire-and-forget: the token resolver launches them on
their own goroutine with a short deadline, and a failed append is logged and
dropped. The access log must never be able to fail a vote.

The DB appender works over database/sql with either the sqlite or postgres
driver; Nop is used when no log database is configured.
*/
package accesslog
