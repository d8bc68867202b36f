// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package lock

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/opencities/cityledger/objectstore"
)

func newTestManager(opts ...OptionFunc) *Manager {
	base := []OptionFunc{WithSettleDelay(time.Millisecond)}
	return NewManager(objectstore.NewMemory(), append(base, opts...)...)
}

func TestAcquireRelease(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	if err := m.Acquire(ctx, "holder-a"); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := m.Release(ctx, "holder-a"); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	// Released lock is immediately acquirable by someone else
	if err := m.Acquire(ctx, "holder-b"); err != nil {
		t.Errorf("Acquire() after release error = %v", err)
	}
}

func TestAcquireBusy(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	if err := m.Acquire(ctx, "holder-a"); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	// A second acquire within the timeout fails immediately
	start := time.Now()
	err := m.Acquire(ctx, "holder-b")
	if !errors.Is(err, ErrBusy) {
		t.Errorf("Acquire() while held error = %v, want ErrBusy", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("busy Acquire() took %v, should fail without blocking", elapsed)
	}
}

func TestAcquireNotReentrant(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	if err := m.Acquire(ctx, "holder-a"); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := m.Acquire(ctx, "holder-a"); !errors.Is(err, ErrBusy) {
		t.Errorf("re-entrant Acquire() error = %v, want ErrBusy", err)
	}
}

func TestLockSelfHealing(t *testing.T) {
	// A holder that never releases is overtaken once the timeout elapses
	m := newTestManager(WithTimeout(50 * time.Millisecond))
	ctx := context.Background()

	if err := m.Acquire(ctx, "crashed-holder"); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if err := m.Acquire(ctx, "new-holder"); !errors.Is(err, ErrBusy) {
		t.Fatalf("Acquire() before timeout error = %v, want ErrBusy", err)
	}

	time.Sleep(60 * time.Millisecond)

	if err := m.Acquire(ctx, "new-holder"); err != nil {
		t.Errorf("Acquire() after timeout error = %v, want success", err)
	}
}

func TestReleaseVerifiesHolder(t *testing.T) {
	objects := objectstore.NewMemory()
	ctx := context.Background()

	// Expired holder loses the lock to a new claimant...
	m := NewManager(objects,
		WithSettleDelay(time.Millisecond),
		WithTimeout(50*time.Millisecond),
	)
	if err := m.Acquire(ctx, "stale-holder"); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	time.Sleep(60 * time.Millisecond)
	if err := m.Acquire(ctx, "live-holder"); err != nil {
		t.Fatalf("Acquire() after expiry error = %v", err)
	}

	// ...and its late release must not delete the new hold
	if err := m.Release(ctx, "stale-holder"); !errors.Is(err, ErrNotHeld) {
		t.Errorf("Release() by stale holder error = %v, want ErrNotHeld", err)
	}
	if err := m.Acquire(ctx, "third-holder"); !errors.Is(err, ErrBusy) {
		t.Errorf("Acquire() error = %v, want ErrBusy (live hold must survive)", err)
	}
}

func TestReleaseAbsentLock(t *testing.T) {
	m := newTestManager()
	if err := m.Release(context.Background(), "nobody"); err != nil {
		t.Errorf("Release() of absent lock error = %v, want nil", err)
	}
}

func TestMalformedRecordTreatedAsExpired(t *testing.T) {
	tests := []struct {
		name   string
		record string
	}{
		{"no delimiter", "garbage"},
		{"bad timestamp", "notanumber,holder-x"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objects := objectstore.NewMemory()
			ctx := context.Background()
			if err := objects.Put(ctx, DefaultKey, []byte(tt.record)); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			m := NewManager(objects, WithSettleDelay(time.Millisecond))
			if err := m.Acquire(ctx, "holder-a"); err != nil {
				t.Errorf("Acquire() over malformed record error = %v", err)
			}
		})
	}
}

func TestRecordRoundTrip(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	record := formatRecord(at, "holder-a")
	if record != "1700000000123,holder-a" {
		t.Errorf("formatRecord() = %q", record)
	}

	since, holder, err := parseRecord(record)
	if err != nil {
		t.Fatalf("parseRecord() error = %v", err)
	}
	if !since.Equal(at) {
		t.Errorf("parseRecord() since = %v, want %v", since, at)
	}
	if holder != "holder-a" {
		t.Errorf("parseRecord() holder = %q, want %q", holder, "holder-a")
	}

	// Holder ids containing the delimiter still parse: only the first
	// comma splits
	_, holder, err = parseRecord("1,holder,with,commas")
	if err != nil {
		t.Fatalf("parseRecord() error = %v", err)
	}
	if holder != "holder,with,commas" {
		t.Errorf("parseRecord() holder = %q", holder)
	}
}

// TestMutualExclusionUnderContention verifies that concurrent acquires with
// distinct holders within the timeout produce at most one winner.
func TestMutualExclusionUnderContention(t *testing.T) {
	defer goleak.VerifyNone(t)

	objects := objectstore.NewMemory()
	ctx := context.Background()

	const rounds = 10
	const contenders = 5

	for round := 0; round < rounds; round++ {
		m := NewManager(objects, WithSettleDelay(20*time.Millisecond))

		var wins atomic.Int32
		var winner atomic.Value
		var wg sync.WaitGroup

		for i := 0; i < contenders; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				holder := "holder-" + strconv.Itoa(id)
				if err := m.Acquire(ctx, holder); err == nil {
					wins.Add(1)
					winner.Store(holder)
				}
			}(i)
		}
		wg.Wait()

		if wins.Load() > 1 {
			t.Fatalf("round %d: %d holders acquired simultaneously", round, wins.Load())
		}
		if wins.Load() == 1 {
			if err := m.Release(ctx, winner.Load().(string)); err != nil {
				t.Fatalf("round %d: Release() error = %v", round, err)
			}
		} else {
			// All contenders lost the settle race; clear the orphan claim
			// so the next round starts clean
			if err := objects.Delete(ctx, DefaultKey); err != nil {
				t.Fatalf("round %d: cleanup error = %v", round, err)
			}
		}
	}
}

func TestAcquireCancelledDuringSettle(t *testing.T) {
	m := NewManager(objectstore.NewMemory(), WithSettleDelay(time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := m.Acquire(ctx, "holder-a")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Acquire() with expired context error = %v, want deadline exceeded", err)
	}
}
