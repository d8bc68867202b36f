// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

/*
Package metrics defines the prometheus counters exposed at /metrics.

Counters cover lock contention (acquired vs busy) and ledger write volume.
All increment helpers are nil-safe so components can run without a registry
in tests.
*/
package metrics
