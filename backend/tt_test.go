package main

import (
	"sync"
	"testing"
)

// mixKey spreads small seeds across the keyspace so test entries land
// in different buckets.
func mixKey(v uint64) uint64 {
	rng := splitmix64{state: v}
	return rng.next()
}

func TestTTConcurrentProbeStore(t *testing.T) {
	tt := NewTranspositionTable(1<<12, 2)
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			for i := 0; i < 4000; i++ {
				key := mixKey(seed ^ uint64(i))
				depth := (i % 8) + 1
				move := Move{X: i % 5, Y: (i / 5) % 5}
				tt.Store(key, depth, float64(i%21)-winValue, TTExact, move)
				tt.Probe(key)
				tt.Probe(key ^ 0x9e3779b97f4a7c15)
			}
		}(uint64(g + 1))
	}

	wg.Wait()
	if tt.Count() == 0 {
		t.Fatalf("expected TT to contain entries after concurrent traffic")
	}
}

func TestTTReplacementPrefersDeeperEntries(t *testing.T) {
	tt := NewTranspositionTable(16, 1)
	key := mixKey(42)
	tt.Store(key, 4, 0.0, TTExact, Move{X: 1, Y: 1})

	// A shallower write must not displace the deeper exact entry.
	tt.Store(key, 2, winValue, TTExact, Move{X: 0, Y: 0})
	entry, ok := tt.Probe(key)
	if !ok || entry.Depth != 4 || entry.Score != 0.0 {
		t.Fatalf("shallow store displaced deeper entry: ok=%v depth=%d score=%f", ok, entry.Depth, entry.Score)
	}

	tt.Store(key, 6, -winValue, TTExact, Move{X: 2, Y: 2})
	entry, ok = tt.Probe(key)
	if !ok || entry.Depth != 6 || entry.Score != -winValue {
		t.Fatalf("deeper store did not replace entry: ok=%v depth=%d score=%f", ok, entry.Depth, entry.Score)
	}
}

func TestTTExactReplacesBoundAtSameDepth(t *testing.T) {
	tt := NewTranspositionTable(16, 1)
	key := mixKey(7)
	tt.Store(key, 3, 1.0, TTLower, Move{X: 0, Y: 1})
	tt.Store(key, 3, 2.0, TTExact, Move{X: 1, Y: 0})
	entry, ok := tt.Probe(key)
	if !ok || entry.Flag != TTExact || entry.Score != 2.0 {
		t.Fatalf("expected exact entry to replace bound: ok=%v flag=%v score=%f", ok, entry.Flag, entry.Score)
	}
}

func TestTTDeleteByKey(t *testing.T) {
	tt := NewTranspositionTable(16, 2)
	key := mixKey(99)
	tt.Store(key, 1, drawValue, TTExact, Move{})
	if !tt.DeleteByKey(key) {
		t.Fatalf("expected delete to find the entry")
	}
	if _, ok := tt.Probe(key); ok {
		t.Fatalf("expected entry to be gone after delete")
	}
	if tt.DeleteByKey(key) {
		t.Fatalf("expected second delete to find nothing")
	}
}

func TestTTGenerationWrapStaysNonZero(t *testing.T) {
	tt := NewTranspositionTable(16, 1)
	tt.gen.Store(^uint32(0))
	tt.NextGeneration()
	if got := tt.Generation(); got == 0 {
		t.Fatalf("generation must never be zero")
	}
}

func TestSharedSearchCacheRebuildOnGeometryChange(t *testing.T) {
	cache := &AISearchCache{}
	config := DefaultConfig()
	config.AiTtSize = 1 << 8
	config.AiTtBuckets = 2
	first := cache.Ensure(config)
	if first == nil {
		t.Fatalf("expected a table for a positive size")
	}
	if again := cache.Ensure(config); again != first {
		t.Fatalf("expected same table for unchanged geometry")
	}
	config.AiTtSize = 1 << 9
	if rebuilt := cache.Ensure(config); rebuilt == first {
		t.Fatalf("expected a rebuilt table after size change")
	}
	config.AiTtSize = 0
	if disabled := cache.Ensure(config); disabled != nil {
		t.Fatalf("expected nil table when disabled")
	}
}
