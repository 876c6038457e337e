package repository

import (
	"context"
	"sync"
	"time"

	"haggle-shop/internal/model"
)

// MemoryRepository keeps encoded saves in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	blobs map[string][]byte
	now   func() time.Time
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{blobs: make(map[string][]byte), now: time.Now}
}

// Save encodes and stores the state under slot.
func (r *MemoryRepository) Save(_ context.Context, slot string, state *model.PlayerState) error {
	blob, err := Encode(slot, state, r.now())
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blobs[slot] = blob
	return nil
}

// Load decodes the save of slot.
func (r *MemoryRepository) Load(_ context.Context, slot string) (*model.SaveData, error) {
	r.mu.RLock()
	blob, ok := r.blobs[slot]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSaveNotFound
	}
	return Decode(blob)
}

// Exists reports whether slot holds a save.
func (r *MemoryRepository) Exists(_ context.Context, slot string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.blobs[slot]
	return ok, nil
}

// Put stores a raw blob, bypassing encoding.
func (r *MemoryRepository) Put(slot string, blob []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blobs[slot] = blob
}

// Close is a no-op.
func (r *MemoryRepository) Close() error { return nil }
