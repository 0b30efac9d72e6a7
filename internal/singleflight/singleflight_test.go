package singleflight

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	g := New()
	if g == nil {
		t.Fatal("New() returned nil")
	}
	if g.m == nil {
		t.Error("New() did not initialize map")
	}
}

func TestJoinOwnership(t *testing.T) {
	g := New()

	c1, owner1 := g.Join("key1")
	if !owner1 {
		t.Error("first Join should be the owner")
	}

	c2, owner2 := g.Join("key1")
	if owner2 {
		t.Error("second Join should not be the owner")
	}
	if c1 != c2 {
		t.Error("second Join should return the same call")
	}

	_, owner3 := g.Join("key2")
	if !owner3 {
		t.Error("Join for a different key should be the owner")
	}
}

func TestSettleReleasesWaiters(t *testing.T) {
	g := New()
	c, _ := g.Join("key")

	const numWaiters = 10
	var wg sync.WaitGroup
	results := make([]interface{}, numWaiters)
	errs := make([]error, numWaiters)

	for i := 0; i < numWaiters; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			joined, _ := g.Join("key")
			results[index], errs[index] = joined.Wait(context.Background())
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	g.Settle("key", c, "result", nil)
	wg.Wait()

	for i := 0; i < numWaiters; i++ {
		if errs[i] != nil {
			t.Errorf("waiter %d returned error: %v", i, errs[i])
		}
		if results[i] != "result" {
			t.Errorf("waiter %d returned %v, want result", i, results[i])
		}
	}
}

func TestSettleRemovesKey(t *testing.T) {
	g := New()
	c, _ := g.Join("key")

	if g.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", g.Len())
	}

	g.Settle("key", c, nil, errors.New("boom"))

	if g.Len() != 0 {
		t.Errorf("Len() after Settle = %d, want 0", g.Len())
	}
	if _, ok := g.Lookup("key"); ok {
		t.Error("Lookup should not find a settled key")
	}

	_, owner := g.Join("key")
	if !owner {
		t.Error("Join after Settle should start a new call")
	}
}

func TestSettleErrorFansOut(t *testing.T) {
	g := New()
	expectedErr := errors.New("test error")

	owner, _ := g.Join("key")
	waiter, _ := g.Join("key")

	g.Settle("key", owner, nil, expectedErr)

	if _, err := waiter.Wait(context.Background()); err != expectedErr {
		t.Errorf("waiter error = %v, want %v", err, expectedErr)
	}
	if _, err := owner.Wait(context.Background()); err != expectedErr {
		t.Errorf("owner error = %v, want %v", err, expectedErr)
	}
}

func TestResetKeepsRunningCallsSettleable(t *testing.T) {
	g := New()
	old, _ := g.Join("key")
	waiter, _ := g.Join("key")

	g.Reset()
	if g.Len() != 0 {
		t.Fatalf("Len() after Reset = %d, want 0", g.Len())
	}

	fresh, owner := g.Join("key")
	if !owner {
		t.Fatal("Join after Reset should be the owner")
	}

	g.Settle("key", old, "old", nil)

	if _, ok := g.Lookup("key"); !ok {
		t.Error("settling a reset call must not remove the newer call")
	}

	val, err := waiter.Wait(context.Background())
	if err != nil || val != "old" {
		t.Errorf("waiter of reset call got (%v, %v), want (old, nil)", val, err)
	}

	g.Settle("key", fresh, "fresh", nil)
	if g.Len() != 0 {
		t.Errorf("Len() = %d, want 0", g.Len())
	}
}

func TestWaitContextCancel(t *testing.T) {
	g := New()
	c, _ := g.Join("key")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want deadline exceeded", err)
	}

	select {
	case <-c.Done():
		t.Error("abandoning Wait must not settle the call")
	default:
	}

	g.Settle("key", c, 1, nil)
	<-c.Done()
}

func TestKeysSorted(t *testing.T) {
	g := New()
	g.Join("b")
	g.Join("a")
	g.Join("c")

	keys := g.Keys()
	want := []string{"a", "b", "c"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %s, want %s", i, keys[i], want[i])
		}
	}
}

func BenchmarkJoinSettle(b *testing.B) {
	g := New()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c, _ := g.Join("bench-key")
		g.Settle("bench-key", c, i, nil)
	}
}
