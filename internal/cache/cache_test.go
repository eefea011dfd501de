package cache

import (
	"testing"
	"time"
)

func TestCacheGetSet(t *testing.T) {
	c := New(time.Minute)
	if _, ok := c.Get("s1", "shifts"); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Set("s1", "shifts", []int{1, 2, 3})
	v, ok := c.Get("s1", "shifts")
	if !ok {
		t.Fatal("expected hit")
	}
	if got := v.([]int); len(got) != 3 {
		t.Fatalf("unexpected value: %v", got)
	}
}

func TestCacheSessionIsolation(t *testing.T) {
	c := New(time.Minute)
	c.Set("s1", "products", "a")
	if _, ok := c.Get("s2", "products"); ok {
		t.Fatal("sessions must not share entries")
	}
	c.DropSession("s1")
	if _, ok := c.Get("s1", "products"); ok {
		t.Fatal("expected entry gone after DropSession")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := New(10 * time.Millisecond)
	c.Set("s1", "stores", "x")
	time.Sleep(25 * time.Millisecond)
	if _, ok := c.Get("s1", "stores"); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestCachePrefixInvalidation(t *testing.T) {
	c := New(time.Minute)
	c.Set("s1", "orders/assembly/1", "list-1")
	c.Set("s1", "orders/assembly/2", "list-2")
	c.Set("s1", "order/assembly/10", "detail-10")
	c.Set("s1", "orders/delivery/1", "delivery-1")

	c.Invalidate("s1", "orders/assembly", "order/assembly/10")

	if _, ok := c.Get("s1", "orders/assembly/1"); ok {
		t.Fatal("expected assembly list 1 invalidated")
	}
	if _, ok := c.Get("s1", "orders/assembly/2"); ok {
		t.Fatal("expected assembly list 2 invalidated")
	}
	if _, ok := c.Get("s1", "order/assembly/10"); ok {
		t.Fatal("expected assembly detail invalidated")
	}
	if _, ok := c.Get("s1", "orders/delivery/1"); !ok {
		t.Fatal("expected delivery list untouched")
	}
}

func TestCacheSweep(t *testing.T) {
	c := New(5 * time.Millisecond)
	c.Set("s1", "workers", "w")
	c.sweep(time.Now().Add(time.Second))
	c.mu.RLock()
	_, ok := c.entries["s1"]
	c.mu.RUnlock()
	if ok {
		t.Fatal("expected empty session swept away")
	}
}
