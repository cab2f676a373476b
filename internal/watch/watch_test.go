package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatch_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "vesta.toml")
	if err := os.WriteFile(p, []byte("a = 1\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, p, 20*time.Millisecond, func() { calls.Add(1) })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(p, []byte("a = 2\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("onChange not called after file write")
		case <-time.After(20 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch: %v", err)
	}
}

func TestWatch_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "vesta.toml")
	if err := os.WriteFile(p, []byte("a = 1\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	go Watch(ctx, p, 150*time.Millisecond, func() { calls.Add(1) }) //nolint:errcheck

	time.Sleep(200 * time.Millisecond)

	// A rapid burst of writes inside the debounce window.
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(p, []byte("a = 2\n"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(600 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("onChange calls: got %d, want 1", n)
	}
}

func TestWatch_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "vesta.toml")
	if err := os.WriteFile(p, []byte("a = 1\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	go Watch(ctx, p, 20*time.Millisecond, func() { calls.Add(1) }) //nolint:errcheck

	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("b = 1\n"), 0o600); err != nil {
		t.Fatalf("write sibling: %v", err)
	}

	time.Sleep(300 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Errorf("onChange calls for sibling file: got %d, want 0", n)
	}
}

func TestWatch_StopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "vesta.toml")
	if err := os.WriteFile(p, []byte("a = 1\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, p, 20*time.Millisecond, func() {})
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancellation")
	}
}
