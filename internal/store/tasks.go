package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nissyi-gh/duedeck/internal/model"
)

// TaskStore is the in-memory task collection backed by an Adapter.
// Every mutation writes the full collection back.
type TaskStore struct {
	mu     sync.RWMutex
	tasks  []model.Task
	lastID int64

	adapter *Adapter
	logger  *zap.Logger
	now     func() time.Time
}

// Option configures a TaskStore.
type Option func(*TaskStore)

// WithClock replaces time.Now as the source of new task ids.
func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) { s.now = now }
}

// WithLogger sets the store logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *TaskStore) { s.logger = logger }
}

// NewTaskStore creates a store and loads the persisted collection.
func NewTaskStore(ctx context.Context, adapter *Adapter, opts ...Option) (*TaskStore, error) {
	s := &TaskStore{
		adapter: adapter,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory collection with the persisted one. The lock
// is held across the read so a concurrent mutation cannot be overwritten by
// a stale load.
func (s *TaskStore) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.adapter.Load(ctx)
	if err != nil {
		return err
	}
	s.tasks = tasks
	for _, t := range tasks {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
	return nil
}

// Tasks returns a copy of the collection in insertion order.
func (s *TaskStore) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Completed reports the completion flag of the task with id and whether it exists.
func (s *TaskStore) Completed(id int64) (bool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t.Completed, true
		}
	}
	return false, false
}

// Apply dispatches a command to the matching mutation.
func (s *TaskStore) Apply(ctx context.Context, cmd model.Command) error {
	switch cmd.Kind {
	case model.CommandAdd:
		_, err := s.Add(ctx, cmd.Task)
		return err
	case model.CommandToggle:
		return s.ToggleCompletion(ctx, cmd.ID)
	case model.CommandDelete:
		return s.Delete(ctx, cmd.ID)
	default:
		return fmt.Errorf("unknown command %d", cmd.Kind)
	}
}

// Add appends a new task and persists the collection.
func (s *TaskStore) Add(ctx context.Context, in model.NewTask) (model.Task, error) {
	if err := in.Validate(); err != nil {
		return model.Task{}, fmt.Errorf("invalid task: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := in.Build(s.nextID())
	tasks := append(append([]model.Task(nil), s.tasks...), t)
	if err := s.adapter.Save(ctx, tasks); err != nil {
		return model.Task{}, fmt.Errorf("add task: %w", err)
	}
	s.tasks = tasks
	s.lastID = t.ID
	s.logger.Info("task added", zap.Int64("id", t.ID), zap.String("category", t.Category))
	return t, nil
}

// ToggleCompletion flips Completed on every task with id and persists.
// An unknown id changes nothing.
func (s *TaskStore) ToggleCompletion(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := append([]model.Task(nil), s.tasks...)
	matched := 0
	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i].Completed = !tasks[i].Completed
			matched++
		}
	}
	if err := s.adapter.Save(ctx, tasks); err != nil {
		return fmt.Errorf("toggle task %d: %w", id, err)
	}
	s.tasks = tasks
	s.logger.Debug("task toggled", zap.Int64("id", id), zap.Int("matched", matched))
	return nil
}

// Delete removes every task with id and persists. An unknown id changes nothing.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.ID != id {
			tasks = append(tasks, t)
		}
	}
	if err := s.adapter.Save(ctx, tasks); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	s.logger.Debug("task deleted", zap.Int64("id", id), zap.Int("removed", len(s.tasks)-len(tasks)))
	s.tasks = tasks
	return nil
}

// nextID returns the creation time in milliseconds, bumped past the last id.
func (s *TaskStore) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	return id
}
