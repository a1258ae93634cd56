package state

import (
	"sync"
	"testing"
)

func TestManagerDefaultsToIdle(t *testing.T) {
	m := NewMemoryManager()
	if got := m.GetState(1); got != StateIdle {
		t.Fatalf("GetState = %q, want %q", got, StateIdle)
	}
	if m.InProgress(1) {
		t.Fatal("new user should not be in progress")
	}
}

func TestManagerStateAndTempLifecycle(t *testing.T) {
	m := NewMemoryManager()
	m.SetState(7, State("flow:step"))
	if !m.InProgress(7) {
		t.Fatal("expected flow in progress")
	}
	m.SetTemp(7, "code", "abc123")
	m.SetTemp(7, "title", "Dune")
	if got := m.TempLen(7); got != 2 {
		t.Fatalf("TempLen = %d, want 2", got)
	}
	if v, ok := m.GetTemp(7, "code"); !ok || v != "abc123" {
		t.Fatalf("GetTemp = %q/%v", v, ok)
	}

	m.Clear(7)
	if m.InProgress(7) {
		t.Fatal("cleared session should be idle")
	}
	if got := m.TempLen(7); got != 0 {
		t.Fatalf("TempLen after clear = %d, want 0", got)
	}
	if _, ok := m.GetTemp(7, "code"); ok {
		t.Fatal("data bag must be empty after Clear")
	}
}

func TestManagerDoSerializesPerUser(t *testing.T) {
	m := NewMemoryManager()
	const n = 100
	counter := 0
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_ = m.Do(42, func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()
	if counter != n {
		t.Fatalf("counter = %d, want %d", counter, n)
	}
}
