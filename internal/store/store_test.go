package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/nissyi-gh/duedeck/internal/model"
)

func fixedClock(start time.Time) func() time.Time {
	return func() time.Time { return start }
}

func newTestStore(t *testing.T, blobs BlobStore) *TaskStore {
	t.Helper()
	s, err := NewTaskStore(context.Background(), NewAdapter(blobs, ""),
		WithLogger(zaptest.NewLogger(t)),
		WithClock(fixedClock(time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC))),
	)
	if err != nil {
		t.Fatalf("NewTaskStore: %v", err)
	}
	return s
}

func TestSQLiteBlobStore_PutGet(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	if _, ok, err := db.Get(ctx, "tasks"); err != nil || ok {
		t.Fatalf("empty db: ok=%v err=%v", ok, err)
	}
	if err := db.Put(ctx, "tasks", []byte(`[1]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := db.Put(ctx, "tasks", []byte(`[2]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err := db.Get(ctx, "tasks")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != `[2]` {
		t.Fatalf("got %s, want [2]", got)
	}
}

func TestSQLiteBlobStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := db.Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("put: %v", err)
	}
	db.Close()

	db, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	got, ok, err := db.Get(ctx, "k")
	if err != nil || !ok || string(got) != "v" {
		t.Fatalf("after reopen: %q ok=%v err=%v", got, ok, err)
	}
}

func TestAdapter_LoadMissing(t *testing.T) {
	a := NewAdapter(NewMemoryBlobStore(), "")
	tasks, err := a.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", tasks)
	}
}

func TestAdapter_LoadNull(t *testing.T) {
	blobs := NewMemoryBlobStore()
	_ = blobs.Put(context.Background(), DefaultKey, []byte("null"))
	tasks, err := NewAdapter(blobs, "").Load(context.Background())
	if err != nil || len(tasks) != 0 {
		t.Fatalf("null blob: %v %v", tasks, err)
	}
}

func TestAdapter_LoadCorrupt(t *testing.T) {
	blobs := NewMemoryBlobStore()
	_ = blobs.Put(context.Background(), DefaultKey, []byte("{not json"))
	_, err := NewAdapter(blobs, "").Load(context.Background())
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("want ErrCorrupt, got %v", err)
	}
}

func TestAdapter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	file := "notes.txt"
	want := []model.Task{
		{ID: 1, Name: "a", Deadline: time.Date(2026, 10, 19, 10, 0, 0, 0, time.Local), Priority: model.PriorityHigh, Category: "work"},
		{ID: 2, Name: "b", Description: "d", Priority: model.PriorityLow, Completed: true, File: &file},
	}
	a := NewAdapter(db, "custom")
	if err := a.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := a.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestTaskStore_AddAppendsAndPersists(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobStore()
	s := newTestStore(t, blobs)

	first, err := s.Add(ctx, model.NewTask{Name: "one", Category: "work"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	second, err := s.Add(ctx, model.NewTask{Name: "two"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if second.ID <= first.ID {
		t.Fatalf("ids must increase: %d then %d", first.ID, second.ID)
	}

	reloaded := newTestStore(t, blobs)
	tasks := reloaded.Tasks()
	if len(tasks) != 2 || tasks[0].Name != "one" || tasks[1].Name != "two" {
		t.Fatalf("unexpected persisted order: %+v", tasks)
	}
}

func TestTaskStore_AddRejectsInvalid(t *testing.T) {
	s := newTestStore(t, NewMemoryBlobStore())
	if _, err := s.Add(context.Background(), model.NewTask{Priority: "urgent"}); err == nil {
		t.Fatal("expected validation error")
	}
	if len(s.Tasks()) != 0 {
		t.Fatal("invalid task must not be stored")
	}
}

func TestTaskStore_ToggleIsSelfInverse(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, NewMemoryBlobStore())
	task, _ := s.Add(ctx, model.NewTask{Name: "x"})

	if err := s.ToggleCompletion(ctx, task.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if done, _ := s.Completed(task.ID); !done {
		t.Fatal("first toggle should complete the task")
	}
	if err := s.ToggleCompletion(ctx, task.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if done, _ := s.Completed(task.ID); done {
		t.Fatal("second toggle should restore the flag")
	}
}

func TestTaskStore_DeleteRemovesExactlyOne(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, NewMemoryBlobStore())
	var ids []int64
	for _, name := range []string{"a", "b", "c"} {
		task, err := s.Add(ctx, model.NewTask{Name: name})
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		ids = append(ids, task.ID)
	}

	if err := s.Delete(ctx, ids[1]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	tasks := s.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("want 2 tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.ID == ids[1] {
			t.Fatalf("task %d still present", ids[1])
		}
	}
}

func TestTaskStore_UnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, NewMemoryBlobStore())
	task, _ := s.Add(ctx, model.NewTask{Name: "keep"})

	if err := s.ToggleCompletion(ctx, 999); err != nil {
		t.Fatalf("toggle unknown: %v", err)
	}
	if err := s.Delete(ctx, 999); err != nil {
		t.Fatalf("delete unknown: %v", err)
	}
	tasks := s.Tasks()
	if len(tasks) != 1 || tasks[0].ID != task.ID || tasks[0].Completed {
		t.Fatalf("collection changed: %+v", tasks)
	}
	if _, ok := s.Completed(999); ok {
		t.Fatal("unknown id reported as present")
	}
}

func TestTaskStore_ReloadDiscardsUnsavedState(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobStore()
	s := newTestStore(t, blobs)
	s.Add(ctx, model.NewTask{Name: "kept"})

	other := newTestStore(t, blobs)
	other.Add(ctx, model.NewTask{Name: "from elsewhere"})

	if err := s.Reload(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := len(s.Tasks()); got != 2 {
		t.Fatalf("reload should pick up persisted state, got %d tasks", got)
	}
}

func TestTaskStore_Apply(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, NewMemoryBlobStore())

	if err := s.Apply(ctx, model.Add(model.NewTask{Name: "cmd"})); err != nil {
		t.Fatalf("apply add: %v", err)
	}
	id := s.Tasks()[0].ID
	if err := s.Apply(ctx, model.Toggle(id)); err != nil {
		t.Fatalf("apply toggle: %v", err)
	}
	if done, _ := s.Completed(id); !done {
		t.Fatal("toggle command not applied")
	}
	if err := s.Apply(ctx, model.Delete(id)); err != nil {
		t.Fatalf("apply delete: %v", err)
	}
	if len(s.Tasks()) != 0 {
		t.Fatal("delete command not applied")
	}
	if err := s.Apply(ctx, model.Command{Kind: model.CommandKind(99)}); err == nil {
		t.Fatal("unknown command should fail")
	}
}

func TestTaskStore_IDsStayUniqueWithFrozenClock(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, NewMemoryBlobStore())
	seen := map[int64]bool{}
	for i := 0; i < 5; i++ {
		task, err := s.Add(ctx, model.NewTask{})
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if seen[task.ID] {
			t.Fatalf("duplicate id %d", task.ID)
		}
		seen[task.ID] = true
	}
}

// gatedBlobStore pauses the first Get after arm until release is closed.
type gatedBlobStore struct {
	BlobStore
	mu      sync.Mutex
	armed   bool
	reading chan struct{}
	release chan struct{}
}

func (g *gatedBlobStore) arm() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.armed = true
	g.reading = make(chan struct{})
	g.release = make(chan struct{})
}

func (g *gatedBlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, ok, err := g.BlobStore.Get(ctx, key)
	g.mu.Lock()
	armed := g.armed
	g.armed = false
	g.mu.Unlock()
	if armed {
		close(g.reading)
		<-g.release
	}
	return value, ok, err
}

func TestTaskStore_ReloadDoesNotLoseConcurrentToggle(t *testing.T) {
	ctx := context.Background()
	blobs := &gatedBlobStore{BlobStore: NewMemoryBlobStore()}
	s := newTestStore(t, blobs)
	a, _ := s.Add(ctx, model.NewTask{Name: "a"})
	b, _ := s.Add(ctx, model.NewTask{Name: "b"})

	blobs.arm()
	reloaded := make(chan error, 1)
	go func() { reloaded <- s.Reload(ctx) }()
	<-blobs.reading

	toggled := make(chan error, 1)
	go func() { toggled <- s.ToggleCompletion(ctx, a.ID) }()

	close(blobs.release)
	if err := <-reloaded; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if err := <-toggled; err != nil {
		t.Fatalf("toggle a: %v", err)
	}
	if err := s.ToggleCompletion(ctx, b.ID); err != nil {
		t.Fatalf("toggle b: %v", err)
	}

	persisted, err := NewAdapter(blobs.BlobStore, "").Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, task := range persisted {
		if !task.Completed {
			t.Fatalf("toggle of %q was lost from storage", task.Name)
		}
	}
}

func TestTaskStore_DeadlineSecondsSurviveReload(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, NewMemoryBlobStore())

	added, err := s.Add(ctx, model.NewTask{Name: "precise", Deadline: "2026-10-19T10:00:30Z"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Reload(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	got := s.Tasks()[0].Deadline
	if !got.Equal(added.Deadline) {
		t.Fatalf("deadline after reload = %v, want %v", got, added.Deadline)
	}
	if got.Second() != 30 {
		t.Fatalf("seconds dropped: %v", got)
	}
}

func TestSQLiteBlobStore_RecordsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	if err := db.Put(ctx, "tasks", []byte("[]")); err != nil {
		t.Fatalf("put: %v", err)
	}
	var updatedAt string
	if err := db.db.QueryRowContext(ctx, "SELECT updated_at FROM kv WHERE key = ?", "tasks").Scan(&updatedAt); err != nil {
		t.Fatalf("select updated_at: %v", err)
	}
	if _, err := time.Parse(time.RFC3339, updatedAt); err != nil {
		t.Fatalf("updated_at = %q: %v", updatedAt, err)
	}
}
