package cas

import (
	"testing"
	"time"

	"github.com/contviz-dev/contviz/interp"
	"github.com/contviz-dev/contviz/trace"
)

func stateAfter(lines ...string) *interp.State {
	s := interp.NewState()
	for _, l := range lines {
		interp.Step(s, trace.Classify(l), time.Unix(0, 0).UTC())
	}
	return s
}

func TestLRUCache_BasicOperation(t *testing.T) {
	underlying := NewMemoryCAS()
	cache := NewLRUCache(underlying, 2)

	states := []*interp.State{
		stateAfter("push (a)"),
		stateAfter("push (b)"),
		stateAfter("push (c)"),
		stateAfter("push (d)"),
	}
	var hashes []Hash
	for i, s := range states {
		h, err := cache.Put(s)
		if err != nil {
			t.Fatalf("Failed to put state %d: %v", i, err)
		}
		hashes = append(hashes, h)
	}

	for i, h := range hashes {
		got, err := Retrieve[*interp.State](cache, h)
		if err != nil {
			t.Fatalf("Failed to retrieve state %d: %v", i, err)
		}
		if got.PrettyPrint() != states[i].PrettyPrint() {
			t.Errorf("Retrieved state %d differs:\n%s\nwant:\n%s", i, got.PrettyPrint(), states[i].PrettyPrint())
		}
		stats := cache.Stats()
		if stats.Size > stats.MaxSize {
			t.Errorf("Cache size %d exceeds max size %d", stats.Size, stats.MaxSize)
		}
	}

	if cache.Len() != 4 {
		t.Errorf("Expected 4 stored snapshots, got %d", cache.Len())
	}
}

func TestLRUCache_Has(t *testing.T) {
	cache := NewLRUCache(NewMemoryCAS(), 10)

	hash, err := cache.Put(stateAfter("push (x)"))
	if err != nil {
		t.Fatalf("Failed to put state: %v", err)
	}

	if !cache.Has(hash) {
		t.Errorf("Cache should report hash exists")
	}

	if cache.Has(Hash(99999)) {
		t.Errorf("Cache should report non-existent hash doesn't exist")
	}
}

func TestLRUCache_DefaultSize(t *testing.T) {
	cache := NewLRUCache(NewMemoryCAS(), 0)
	if cache.Stats().MaxSize != DefaultCacheSize {
		t.Errorf("Expected default max size %d, got %d", DefaultCacheSize, cache.Stats().MaxSize)
	}
}
