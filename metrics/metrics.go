// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package metrics

import "github.com/prometheus/client_golang/prometheus"

const metricNamePrefix = "cityledger_"

// Metrics holds the counters shared by the lock manager and ledger store.
// A nil *Metrics is valid and records nothing, so tests can skip wiring.
type Metrics struct {
	LockAcquired  prometheus.Counter
	LockBusy      prometheus.Counter
	LedgerWrites  prometheus.Counter
	PollsCreated  prometheus.Counter
	VotesAppended prometheus.Counter
}

// New creates the counter set and registers it with the given registry.
func New(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		LockAcquired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricNamePrefix + "lock_acquired_total",
			Help: "Total number of successful lock acquisitions",
		}),
		LockBusy: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricNamePrefix + "lock_busy_total",
			Help: "Total number of lock acquisitions rejected as busy",
		}),
		LedgerWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricNamePrefix + "ledger_writes_total",
			Help: "Total number of whole-ledger document writes",
		}),
		PollsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricNamePrefix + "polls_created_total",
			Help: "Total number of polls created",
		}),
		VotesAppended: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricNamePrefix + "votes_appended_total",
			Help: "Total number of votes appended to the ledger",
		}),
	}
	registry.MustRegister(
		m.LockAcquired,
		m.LockBusy,
		m.LedgerWrites,
		m.PollsCreated,
		m.VotesAppended,
	)
	return m
}

// IncLockAcquired is nil-safe.
func (m *Metrics) IncLockAcquired() {
	if m != nil {
		m.LockAcquired.Inc()
	}
}

// IncLockBusy is nil-safe.
func (m *Metrics) IncLockBusy() {
	if m != nil {
		m.LockBusy.Inc()
	}
}

// IncLedgerWrites is nil-safe.
func (m *Metrics) IncLedgerWrites() {
	if m != nil {
		m.LedgerWrites.Inc()
	}
}

// IncPollsCreated is nil-safe.
func (m *Metrics) IncPollsCreated() {
	if m != nil {
		m.PollsCreated.Inc()
	}
}

// IncVotesAppended is nil-safe.
func (m *Metrics) IncVotesAppended() {
	if m != nil {
		m.VotesAppended.Inc()
	}
}
