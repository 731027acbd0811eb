package http

import (
	"testing"
	"time"
)

func TestLRUCacheGetSet(t *testing.T) {
	c := newLRUCache[int](2, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("empty cache returned a value")
	}

	c.Set("a", 1)
	c.Set("b", 2)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = %d, %v", v, ok)
	}

	// "a" was just used, so adding "c" evicts "b".
	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Fatal("least recently used entry not evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("recently used entry evicted: %d, %v", v, ok)
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	c := newLRUCache[string](10, 10*time.Millisecond)
	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expired entry served")
	}
	if removed := c.CleanExpired(); removed != 0 {
		// Get already dropped it; CleanExpired finds nothing left.
		t.Fatalf("CleanExpired removed %d entries", removed)
	}
}

func TestLRUCachePurge(t *testing.T) {
	c := newLRUCache[int](10, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Purge()

	if _, ok := c.Get("a"); ok {
		t.Fatal("purged entry served")
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal("purged entry served")
	}

	// The cache stays usable after a purge.
	c.Set("c", 3)
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Fatalf("Get(c) after purge = %d, %v", v, ok)
	}
}

func TestRateLimiterAllowsWithinBudget(t *testing.T) {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}

	for i := 0; i < 60; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d blocked within budget", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Fatal("request 61 should be blocked")
	}

	// Other clients are tracked independently.
	if !rl.allow("10.0.0.2") {
		t.Fatal("separate client blocked")
	}
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}

	for i := 0; i < 61; i++ {
		rl.allow("10.0.0.1")
	}
	if rl.allow("10.0.0.1") {
		t.Fatal("should still be blocked")
	}

	rl.mu.Lock()
	rl.clients["10.0.0.1"].lastRequest = time.Now().Add(-2 * time.Minute)
	rl.mu.Unlock()

	if !rl.allow("10.0.0.1") {
		t.Fatal("window elapsed, request should pass")
	}
}

func TestGenerateRequestID(t *testing.T) {
	a := generateRequestID()
	b := generateRequestID()
	if a == b {
		t.Fatalf("request IDs collide: %q", a)
	}
	if len(a) != len("req_")+16 {
		t.Fatalf("unexpected id shape: %q", a)
	}
}
