// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "storage-test.db")
	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return New(db)
}

func TestStore_GetSet(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)

	t.Run("missing key", func(t *testing.T) {
		_, err := st.Get(ctx, "never-written")
		if !errors.Is(err, ErrNoKey) {
			t.Errorf("Get() error = %v, want ErrNoKey", err)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		if err := st.Set(ctx, "greeting", `{"hello":"world"}`); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, err := st.Get(ctx, "greeting")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got != `{"hello":"world"}` {
			t.Errorf("Get() = %q, want %q", got, `{"hello":"world"}`)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := st.Set(ctx, "greeting", `{"hello":"again"}`); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, err := st.Get(ctx, "greeting")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got != `{"hello":"again"}` {
			t.Errorf("Get() = %q, want overwritten value", got)
		}
	})
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)

	if err := st.Set(ctx, "temp", `1`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := st.Remove(ctx, "temp"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := st.Get(ctx, "temp"); !errors.Is(err, ErrNoKey) {
		t.Errorf("Get() after Remove error = %v, want ErrNoKey", err)
	}

	// Removing an absent key is not an error.
	if err := st.Remove(ctx, "never-existed"); err != nil {
		t.Errorf("Remove() absent key = %v, want nil", err)
	}
}

func TestStore_Keys(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)

	keys, err := st.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("Keys() on empty store = %v, want empty", keys)
	}

	for _, k := range []string{"zulu", "alpha", "mike"} {
		if err := st.Set(ctx, k, `{}`); err != nil {
			t.Fatalf("Set(%q): %v", k, err)
		}
	}

	keys, err = st.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	want := []string{"alpha", "mike", "zulu"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestStore_Watch(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)

	var mu sync.Mutex
	fired := 0
	notified := make(chan struct{}, 8)
	cancel := st.Watch("watched", func() {
		mu.Lock()
		fired++
		mu.Unlock()
		notified <- struct{}{}
	})
	defer cancel()

	if err := st.Set(ctx, "watched", `1`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	waitNotify(t, notified)

	// Writes to other keys must not notify this watcher.
	if err := st.Set(ctx, "unrelated", `1`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := st.Remove(ctx, "watched"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	waitNotify(t, notified)

	mu.Lock()
	got := fired
	mu.Unlock()
	if got != 2 {
		t.Errorf("watcher fired %d times, want 2", got)
	}

	cancel()
	if err := st.Set(ctx, "watched", `2`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	// Give a cancelled subscription a moment to misfire if it were going to.
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	got = fired
	mu.Unlock()
	if got != 2 {
		t.Errorf("watcher fired %d times after cancel, want 2", got)
	}
}

func waitNotify(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watch notification")
	}
}

func TestLoadJSON(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)

	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	t.Run("missing key", func(t *testing.T) {
		var out doc
		err := LoadJSON(ctx, st, "absent", &out)
		if !errors.Is(err, ErrNoKey) {
			t.Errorf("LoadJSON() error = %v, want ErrNoKey", err)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		in := doc{Name: "quickweb", Count: 3}
		if err := SaveJSON(ctx, st, "doc", in); err != nil {
			t.Fatalf("SaveJSON: %v", err)
		}
		var out doc
		if err := LoadJSON(ctx, st, "doc", &out); err != nil {
			t.Fatalf("LoadJSON: %v", err)
		}
		if out != in {
			t.Errorf("LoadJSON() = %+v, want %+v", out, in)
		}
	})

	t.Run("corrupt document", func(t *testing.T) {
		if err := st.Set(ctx, "broken", `{not json`); err != nil {
			t.Fatalf("Set: %v", err)
		}
		var out doc
		err := LoadJSON(ctx, st, "broken", &out)
		if !errors.Is(err, ErrCorrupt) {
			t.Errorf("LoadJSON() error = %v, want ErrCorrupt", err)
		}
	})
}

func TestNewDB_CreatesFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "new.db")
	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}
