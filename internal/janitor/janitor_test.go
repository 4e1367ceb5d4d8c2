package janitor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type stubStore struct {
	refs map[string]struct{}
	err  error
}

func (s *stubStore) ReferencedUploads(ctx context.Context) (map[string]struct{}, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.refs, nil
}

type fakeTicker struct {
	ch chan time.Time
}

func (f fakeTicker) C() <-chan time.Time { return f.ch }
func (f fakeTicker) Stop()               {}

func writeUpload(t *testing.T, root, rel string, age time.Duration) string {
	t.Helper()

	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if age > 0 {
		old := time.Now().Add(-age)
		if err := os.Chtimes(full, old, old); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}
	return full
}

func TestRunOnceRemovesOrphans(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	orphan := writeUpload(t, root, "resumes/1-orphan.pdf", 48*time.Hour)
	kept := writeUpload(t, root, "resumes/2-kept.pdf", 48*time.Hour)
	fresh := writeUpload(t, root, "blogs/3-fresh.png", 0)

	store := &stubStore{refs: map[string]struct{}{
		"/uploads/resumes/2-kept.pdf": {},
	}}
	j := NewJanitor(store, root, Config{Grace: "24h"})

	removed, err := j.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(orphan); !os.IsNotExist(err) {
		t.Error("orphan still on disk")
	}
	if _, err := os.Stat(kept); err != nil {
		t.Errorf("referenced file removed: %v", err)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("file inside grace period removed: %v", err)
	}
}

func TestRunOnceStoreError(t *testing.T) {
	t.Parallel()

	j := NewJanitor(&stubStore{err: errors.New("db down")}, t.TempDir(), Config{})
	if _, err := j.RunOnce(context.Background()); err == nil {
		t.Fatal("store error swallowed")
	}
}

func TestRunOnceSkipsWhenAlreadyRunning(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeUpload(t, root, "resumes/1-orphan.pdf", 48*time.Hour)

	j := NewJanitor(&stubStore{refs: map[string]struct{}{}}, root, Config{Grace: "1h"})
	j.running.Store(true)

	removed, err := j.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if removed != 0 {
		t.Fatalf("removed = %d, want 0 while another sweep runs", removed)
	}
}

func TestStartSweepsOnTick(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	orphan := writeUpload(t, root, "resumes/1-orphan.pdf", 48*time.Hour)

	j := NewJanitor(&stubStore{refs: map[string]struct{}{}}, root, Config{Grace: "1h"})
	ft := fakeTicker{ch: make(chan time.Time, 1)}
	j.newTicker = func(time.Duration) ticker { return ft }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- j.Start(ctx) }()

	ft.ch <- time.Now()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := os.Stat(orphan); os.IsNotExist(err) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("orphan not removed after tick")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("start returned %v, want context.Canceled", err)
	}
}

func TestStartMissingDependencies(t *testing.T) {
	t.Parallel()

	j := NewJanitor(nil, "", Config{})
	if err := j.Start(context.Background()); err == nil {
		t.Fatal("start accepted missing dependencies")
	}
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	j := NewJanitor(&stubStore{}, "uploads", Config{})
	if j.interval != 6*time.Hour {
		t.Fatalf("interval = %v, want 6h default", j.interval)
	}
	if j.grace != 24*time.Hour {
		t.Fatalf("grace = %v, want 24h default", j.grace)
	}

	j = NewJanitor(&stubStore{}, "uploads", Config{Interval: "30m", Grace: "2h"})
	if j.interval != 30*time.Minute || j.grace != 2*time.Hour {
		t.Fatalf("interval = %v grace = %v, want parsed values", j.interval, j.grace)
	}
}
