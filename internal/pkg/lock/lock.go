// Package lock serialises mutations of one save slot. Progression calls
// are single atomic transitions and must never interleave on the same
// player state.
package lock

import (
	"context"
	"sync"
	"time"
)

// SlotLock hands out one mutex per save slot.
type SlotLock struct {
	locks sync.Map // map[string]*sync.Mutex
}

// NewSlotLock creates an empty SlotLock.
func NewSlotLock() *SlotLock {
	return &SlotLock{}
}

func (sl *SlotLock) get(slot string) *sync.Mutex {
	if v, ok := sl.locks.Load(slot); ok {
		return v.(*sync.Mutex)
	}
	actual, _ := sl.locks.LoadOrStore(slot, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// Lock blocks until the slot is free.
func (sl *SlotLock) Lock(slot string) {
	sl.get(slot).Lock()
}

// Unlock releases the slot. Unlocking an unknown slot is a no-op.
func (sl *SlotLock) Unlock(slot string) {
	if v, ok := sl.locks.Load(slot); ok {
		v.(*sync.Mutex).Unlock()
	}
}

// TryLock acquires the slot only if it is free.
func (sl *SlotLock) TryLock(slot string) bool {
	return sl.get(slot).TryLock()
}

// LockWithTimeout waits up to timeout for the slot.
func (sl *SlotLock) LockWithTimeout(ctx context.Context, slot string, timeout time.Duration) bool {
	m := sl.get(slot)

	done := make(chan struct{})
	go func() {
		m.Lock()
		close(done)
	}()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case <-done:
		return true
	case <-timeoutCtx.Done():
		// the waiter still gets the mutex eventually; hand it straight back
		go func() {
			<-done
			m.Unlock()
		}()
		return false
	}
}

// WithLock runs fn while holding the slot.
func (sl *SlotLock) WithLock(slot string, fn func() error) error {
	sl.Lock(slot)
	defer sl.Unlock(slot)
	return fn()
}

// WithLockContext runs fn while holding the slot, giving up after timeout
// or when ctx is cancelled.
func (sl *SlotLock) WithLockContext(ctx context.Context, slot string, timeout time.Duration, fn func() error) error {
	if !sl.LockWithTimeout(ctx, slot, timeout) {
		return ErrLockTimeout
	}
	defer sl.Unlock(slot)

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fn()
	}
}

// IsLocked is a point-in-time check.
func (sl *SlotLock) IsLocked(slot string) bool {
	v, ok := sl.locks.Load(slot)
	if !ok {
		return false
	}
	m := v.(*sync.Mutex)
	if m.TryLock() {
		m.Unlock()
		return false
	}
	return true
}
