package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nissyi-gh/duedeck/internal/model"
)

// DefaultKey is the blob key the task collection lives under.
const DefaultKey = "tasks"

// ErrCorrupt is returned when the stored collection cannot be decoded.
var ErrCorrupt = errors.New("stored tasks are corrupt")

// Adapter reads and writes the whole task collection as one JSON blob.
type Adapter struct {
	blobs BlobStore
	key   string
}

func NewAdapter(blobs BlobStore, key string) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{blobs: blobs, key: key}
}

// Load returns the stored collection. A missing or empty blob is an empty
// collection, not an error.
func (a *Adapter) Load(ctx context.Context) ([]model.Task, error) {
	raw, ok, err := a.blobs.Get(ctx, a.key)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if !ok || len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []model.Task{}, nil
	}
	var tasks []model.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// Save serializes tasks and overwrites the stored blob.
func (a *Adapter) Save(ctx context.Context, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	raw, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := a.blobs.Put(ctx, a.key, raw); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}
