package lock

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// Concurrent read-modify-write under the slot lock matches sequential execution.
func TestSerialisedMutationsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initialCash := rapid.IntRange(1000, 100000).Draw(t, "initialCash")
		numOps := rapid.IntRange(2, 20).Draw(t, "numOps")

		amounts := make([]int, numOps)
		expected := initialCash
		for i := range amounts {
			amounts[i] = rapid.IntRange(-500, 500).Draw(t, "amount")
			expected += amounts[i]
		}
		slot := rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "slot")

		sl := NewSlotLock()
		cash := initialCash

		var wg sync.WaitGroup
		wg.Add(numOps)
		for _, amount := range amounts {
			go func(amount int) {
				defer wg.Done()
				_ = sl.WithLock(slot, func() error {
					cash += amount
					return nil
				})
			}(amount)
		}
		wg.Wait()

		if cash != expected {
			t.Fatalf("cash mismatch: expected %d, got %d (initial=%d, ops=%d)", expected, cash, initialCash, numOps)
		}
	})
}

// Different slots never share a mutex.
func TestIndependentSlotsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numSlots := rapid.IntRange(2, 10).Draw(t, "numSlots")
		opsPerSlot := rapid.IntRange(5, 20).Draw(t, "opsPerSlot")

		sl := NewSlotLock()
		counters := make(map[string]*int, numSlots)
		for i := 0; i < numSlots; i++ {
			counters[fmt.Sprintf("slot-%d", i)] = new(int)
		}

		var wg sync.WaitGroup
		wg.Add(numSlots * opsPerSlot)
		for slot, c := range counters {
			for j := 0; j < opsPerSlot; j++ {
				go func(slot string, c *int) {
					defer wg.Done()
					sl.Lock(slot)
					defer sl.Unlock(slot)
					*c++
				}(slot, c)
			}
		}
		wg.Wait()

		for slot, c := range counters {
			if *c != opsPerSlot {
				t.Fatalf("%s: expected %d, got %d", slot, opsPerSlot, *c)
			}
		}

		sl.Lock("slot-0")
		if !sl.TryLock("slot-1") {
			t.Fatal("holding slot-0 must not block slot-1")
		}
		sl.Unlock("slot-1")
		sl.Unlock("slot-0")
	})
}

// At least one simultaneous TryLock wins and the slot is free afterwards.
func TestTryLockProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		attempts := rapid.IntRange(5, 20).Draw(t, "attempts")
		sl := NewSlotLock()

		var wins atomic.Int32
		var wg sync.WaitGroup
		wg.Add(attempts)
		start := make(chan struct{})
		for i := 0; i < attempts; i++ {
			go func() {
				defer wg.Done()
				<-start
				if sl.TryLock("alice") {
					wins.Add(1)
					sl.Unlock("alice")
				}
			}()
		}
		close(start)
		wg.Wait()

		if wins.Load() < 1 {
			t.Fatalf("expected at least one TryLock to succeed, got %d", wins.Load())
		}
		if sl.IsLocked("alice") {
			t.Fatal("slot should be free after all holders released")
		}
	})
}

func TestWithLockContextTimeout(t *testing.T) {
	sl := NewSlotLock()
	sl.Lock("alice")

	called := false
	err := sl.WithLockContext(context.Background(), "alice", 20*time.Millisecond, func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.False(t, called)
	assert.True(t, sl.IsLocked("alice"))

	sl.Unlock("alice")
	require.Eventually(t, func() bool { return !sl.IsLocked("alice") }, time.Second, 5*time.Millisecond)

	err = sl.WithLockContext(context.Background(), "alice", time.Second, func() error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestWithLockContextCancelled(t *testing.T) {
	sl := NewSlotLock()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sl.WithLockContext(ctx, "alice", time.Second, func() error { return nil })
	assert.Error(t, err)
}

func TestIsLockedUnknownSlot(t *testing.T) {
	assert.False(t, NewSlotLock().IsLocked("nobody"))
}
