// Package repository persists save slots. Every backend stores the same
// versioned JSON blob; the core treats it as opaque.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"haggle-shop/internal/model"
)

// Common errors for repository operations.
var (
	ErrSaveNotFound  = errors.New("save not found")
	ErrMalformedSave = errors.New("malformed save")
)

// SaveRepository stores one player state per slot.
type SaveRepository interface {
	Save(ctx context.Context, slot string, state *model.PlayerState) error
	Load(ctx context.Context, slot string) (*model.SaveData, error)
	Exists(ctx context.Context, slot string) (bool, error)
	Close() error
}

// Encode wraps state in the current save layout and serialises it.
func Encode(slot string, state *model.PlayerState, savedAt time.Time) ([]byte, error) {
	if state == nil {
		return nil, fmt.Errorf("encode save %q: nil state", slot)
	}
	data := model.SaveData{
		Version: model.SaveVersion,
		Slot:    slot,
		SavedAt: savedAt.UTC(),
		State:   *state,
	}
	blob, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode save %q: %w", slot, err)
	}
	return blob, nil
}

// Decode parses a blob written by Encode. Undecodable blobs and other
// layout versions return ErrMalformedSave.
func Decode(blob []byte) (*model.SaveData, error) {
	var data model.SaveData
	if err := json.Unmarshal(blob, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSave, err)
	}
	if data.Version != model.SaveVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrMalformedSave, data.Version, model.SaveVersion)
	}
	return &data, nil
}
