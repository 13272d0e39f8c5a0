package cache

import (
	"testing"
	"time"
)

func newClock(start time.Time) (func() time.Time, func(time.Duration)) {
	current := start
	now := func() time.Time { return current }
	advance := func(d time.Duration) { current = current.Add(d) }
	return now, advance
}

func TestGetMissing(t *testing.T) {
	c := New[string, int](Config{TTL: time.Minute, MaxSize: 10})

	if _, ok := c.Get("absent"); ok {
		t.Error("Get() on empty cache reported a hit")
	}
}

func TestSetGet(t *testing.T) {
	c := New[string, int](Config{TTL: time.Minute, MaxSize: 10})

	c.Set("a", 1)
	got, ok := c.Get("a")
	if !ok {
		t.Fatal("Get() reported a miss for a fresh entry")
	}
	if got != 1 {
		t.Errorf("Get() = %d, want 1", got)
	}
}

func TestExpiry(t *testing.T) {
	c := New[string, int](Config{TTL: time.Minute, MaxSize: 10})
	now, advance := newClock(time.Unix(1000, 0))
	c.now = now

	c.Set("a", 1)
	advance(30 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Error("entry expired before its TTL")
	}

	advance(31 * time.Second)
	if _, ok := c.Get("a"); ok {
		t.Error("entry survived past its TTL")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after expired entry was read", c.Len())
	}
}

func TestSetRestartsTTL(t *testing.T) {
	c := New[string, int](Config{TTL: time.Minute, MaxSize: 10})
	now, advance := newClock(time.Unix(1000, 0))
	c.now = now

	c.Set("a", 1)
	advance(45 * time.Second)
	c.Set("a", 2)
	advance(45 * time.Second)

	got, ok := c.Get("a")
	if !ok {
		t.Fatal("entry expired although it was rewritten")
	}
	if got != 2 {
		t.Errorf("Get() = %d, want 2", got)
	}
}

func TestOverflowSweepsExpired(t *testing.T) {
	c := New[int, int](Config{TTL: time.Minute, MaxSize: 3})
	now, advance := newClock(time.Unix(1000, 0))
	c.now = now

	for i := 0; i < 3; i++ {
		c.Set(i, i)
	}
	advance(2 * time.Minute)

	// Pushing past MaxSize triggers the sweep of the three expired entries.
	c.Set(99, 99)

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after overflow sweep", c.Len())
	}
	if _, ok := c.Get(99); !ok {
		t.Error("fresh entry was swept")
	}
}
