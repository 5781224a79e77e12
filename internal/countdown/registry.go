package countdown

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/nissyi-gh/duedeck/internal/model"
)

// Tick is one countdown update for a task.
type Tick struct {
	ID      int64
	Display Display
}

// StatusFunc reports a task's completion flag and whether it still exists.
type StatusFunc func(id int64) (completed bool, ok bool)

// Registry owns one recurring cron entry per mounted task.
type Registry struct {
	mu       sync.Mutex
	cron     *cron.Cron
	spec     string
	entries  map[int64]cron.EntryID
	deadline map[int64]time.Time

	status StatusFunc
	sink   func(Tick)
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithLogger sets the registry logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithSpec replaces the "@every 1s" schedule.
func WithSpec(spec string) Option {
	return func(r *Registry) { r.spec = spec }
}

// NewRegistry creates a stopped registry. Ticks are delivered to sink from
// scheduler goroutines, never from Mount or Reset.
func NewRegistry(status StatusFunc, sink func(Tick), opts ...Option) *Registry {
	r := &Registry{
		cron:     cron.New(cron.WithSeconds()),
		spec:     "@every 1s",
		entries:  make(map[int64]cron.EntryID),
		deadline: make(map[int64]time.Time),
		status:   status,
		sink:     sink,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start runs the scheduler in its own goroutine.
func (r *Registry) Start() {
	r.cron.Start()
}

// Stop cancels every entry and waits for running ticks to finish.
func (r *Registry) Stop() {
	r.CancelAll()
	<-r.cron.Stop().Done()
}

// Reset cancels every registered entry, then mounts tasks. It returns the
// initial display of each task.
func (r *Registry) Reset(tasks []model.Task) map[int64]Display {
	r.CancelAll()
	initial := make(map[int64]Display, len(tasks))
	for _, t := range tasks {
		initial[t.ID] = r.Mount(t)
	}
	return initial
}

// Mount returns the task's current display and, unless that display is
// already terminal, registers a recurring entry for it. Completed tasks
// never get an entry.
func (r *Registry) Mount(t model.Task) Display {
	d := Evaluate(t.Completed, t.Deadline, r.now())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelLocked(t.ID)
	if d.State.Terminal() {
		return d
	}

	id := t.ID
	entry, err := r.cron.AddFunc(r.spec, func() { r.tick(id) })
	if err != nil {
		r.logger.Error("schedule countdown", zap.Int64("id", t.ID), zap.Error(err))
		return d
	}
	r.entries[t.ID] = entry
	r.deadline[t.ID] = t.Deadline
	return d
}

// Cancel removes the entry for id, if any.
func (r *Registry) Cancel(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelLocked(id)
}

// CancelAll removes every registered entry.
func (r *Registry) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.entries {
		r.cancelLocked(id)
	}
}

// Active returns the number of registered entries.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) cancelLocked(id int64) {
	entry, ok := r.entries[id]
	if !ok {
		return
	}
	r.cron.Remove(entry)
	delete(r.entries, id)
	delete(r.deadline, id)
}

// tick re-checks completion, evaluates the remaining time and emits it.
// A terminal display cancels the entry.
func (r *Registry) tick(id int64) {
	r.mu.Lock()
	if _, ok := r.entries[id]; !ok {
		r.mu.Unlock()
		return
	}
	deadline := r.deadline[id]
	r.mu.Unlock()

	completed, ok := r.status(id)
	if !ok {
		r.Cancel(id)
		return
	}

	d := Evaluate(completed, deadline, r.now())
	if d.State.Terminal() {
		r.Cancel(id)
	}
	r.sink(Tick{ID: id, Display: d})
}
