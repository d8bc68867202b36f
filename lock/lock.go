// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package lock

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/opencities/cityledger/metrics"
	"github.com/opencities/cityledger/objectstore"
)

const (
	// DefaultKey is where the lock object lives in the object store.
	DefaultKey = "polls.lock"

	// DefaultTimeout is how long a held lock stays valid. A holder that
	// crashes without releasing is overtaken once this elapses.
	DefaultTimeout = 10 * time.Second

	// DefaultSettleDelay is the pause between the claim write and the
	// verification re-read.
	DefaultSettleDelay = 50 * time.Millisecond
)

var (
	// ErrBusy is returned when the lock is validly held by someone else.
	// It is retryable; callers surface it distinctly from terminal errors.
	ErrBusy = errors.New("lock is busy")

	// ErrNotHeld is returned by Release when the current lock record
	// belongs to a different holder. The record is left untouched.
	ErrNotHeld = errors.New("lock not held by this holder")
)

// Manager implements cooperative, timeout-based mutual exclusion over a
// single lock object. The backing store offers no compare-and-swap, so a
// claim is an unconditional write followed by a settle delay and a
// verification re-read. Two writers racing within the settle window can
// still both believe they won; the window is narrowed, not eliminated.
type Manager struct {
	objects objectstore.Store
	metrics *metrics.Metrics
	key     string
	timeout time.Duration
	settle  time.Duration
	now     func() time.Time
}

type OptionFunc func(*Manager)

// WithKey overrides the lock object key.
func WithKey(key string) OptionFunc {
	return func(m *Manager) {
		m.key = key
	}
}

// WithTimeout overrides the hold timeout. Intended for tests.
func WithTimeout(d time.Duration) OptionFunc {
	return func(m *Manager) {
		m.timeout = d
	}
}

// WithSettleDelay overrides the post-claim settle delay. Intended for tests.
func WithSettleDelay(d time.Duration) OptionFunc {
	return func(m *Manager) {
		m.settle = d
	}
}

// WithMetrics wires contention counters.
func WithMetrics(mtr *metrics.Metrics) OptionFunc {
	return func(m *Manager) {
		m.metrics = mtr
	}
}

// NewManager creates a lock manager over the given store.
func NewManager(objects objectstore.Store, opts ...OptionFunc) *Manager {
	m := &Manager{
		objects: objects,
		key:     DefaultKey,
		timeout: DefaultTimeout,
		settle:  DefaultSettleDelay,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Acquire attempts to claim the lock for holder. It never blocks waiting
// for a busy lock: a valid existing hold returns ErrBusy immediately and
// the caller decides whether to retry.
func (m *Manager) Acquire(ctx context.Context, holder string) error {
	data, err := m.objects.Get(ctx, m.key)
	if err != nil && !errors.Is(err, objectstore.ErrNotExist) {
		return fmt.Errorf("lock: read: %w", err)
	}
	if err == nil {
		since, _, parseErr := parseRecord(string(data))
		// A record we can't parse is treated as expired and overwritten.
		// A fresh record blocks even its own holder: acquisition is not
		// re-entrant.
		if parseErr == nil && m.now().Sub(since) < m.timeout {
			m.metrics.IncLockBusy()
			return ErrBusy
		}
	}

	// Best-effort claim: the store has no conditional put.
	if err := m.objects.Put(ctx, m.key, []byte(formatRecord(m.now(), holder))); err != nil {
		return fmt.Errorf("lock: claim: %w", err)
	}

	// Let a racing claim land before verifying ours survived.
	select {
	case <-time.After(m.settle):
	case <-ctx.Done():
		return ctx.Err()
	}

	data, err = m.objects.Get(ctx, m.key)
	if err != nil {
		if errors.Is(err, objectstore.ErrNotExist) {
			// Someone deleted our claim out from under us.
			m.metrics.IncLockBusy()
			return ErrBusy
		}
		return fmt.Errorf("lock: verify: %w", err)
	}
	_, winner, parseErr := parseRecord(string(data))
	if parseErr != nil || winner != holder {
		m.metrics.IncLockBusy()
		return ErrBusy
	}
	m.metrics.IncLockAcquired()
	return nil
}

// Release deletes the lock object, but only after verifying the current
// record still names this holder. A holder whose lock expired and was
// claimed by someone else gets ErrNotHeld and the new hold survives.
func (m *Manager) Release(ctx context.Context, holder string) error {
	data, err := m.objects.Get(ctx, m.key)
	if err != nil {
		if errors.Is(err, objectstore.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("lock: read: %w", err)
	}
	_, current, parseErr := parseRecord(string(data))
	if parseErr == nil && current != holder {
		return ErrNotHeld
	}
	if err := m.objects.Delete(ctx, m.key); err != nil {
		return fmt.Errorf("lock: delete: %w", err)
	}
	return nil
}

// formatRecord encodes "<epochMillis>,<holderId>".
func formatRecord(at time.Time, holder string) string {
	return strconv.FormatInt(at.UnixMilli(), 10) + "," + holder
}

// parseRecord decodes "<epochMillis>,<holderId>".
func parseRecord(record string) (time.Time, string, error) {
	millis, holder, ok := strings.Cut(record, ",")
	if !ok {
		return time.Time{}, "", fmt.Errorf("lock: malformed record %q", record)
	}
	since, err := strconv.ParseInt(millis, 10, 64)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("lock: malformed timestamp %q", millis)
	}
	return time.UnixMilli(since), holder, nil
}
