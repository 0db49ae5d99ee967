package memory

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/sandevgo/verdictbot/internal/core"
)

func TestStore_CreateGetDelete(t *testing.T) {
	store := NewStore()

	sess, err := store.Create("s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.State != core.StateCollectingQuestion {
		t.Errorf("new session state = %q, want %q", sess.State, core.StateCollectingQuestion)
	}
	if sess.Scores == nil {
		t.Error("new session has nil scores")
	}

	got, err := store.Get("s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != sess {
		t.Error("Get returned a different session")
	}

	store.Delete("s1")
	if _, err := store.Get("s1"); !errors.Is(err, core.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}

	// deleting again is a no-op
	store.Delete("s1")
}

func TestStore_DuplicateCreate(t *testing.T) {
	store := NewStore()

	if _, err := store.Create("s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Create("s1"); !errors.Is(err, core.ErrDuplicateSession) {
		t.Errorf("expected ErrDuplicateSession, got %v", err)
	}
}

func TestStore_GetUnknown(t *testing.T) {
	store := NewStore()
	if _, err := store.Get("nope"); !errors.Is(err, core.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestStore_ConcurrentDistinctIDs(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i)
			if _, err := store.Create(id); err != nil {
				t.Errorf("create %s: %v", id, err)
				return
			}
			if _, err := store.Get(id); err != nil {
				t.Errorf("get %s: %v", id, err)
			}
			store.Delete(id)
		}(i)
	}
	wg.Wait()
}
