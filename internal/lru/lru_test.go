package lru

import (
	"slices"
	"testing"
)

func TestGetAndAdd(t *testing.T) {
	c := New[string, int](0, nil)
	if _, ok := c.Get("a"); ok {
		t.Error("Get on empty cache succeeded")
	}
	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("a", 3)
	if v, ok := c.Get("a"); !ok || v != 3 {
		t.Errorf("Get(a) = %d, %v, want 3, true", v, ok)
	}
	if c.Len() != 2 || c.Limit() != 0 {
		t.Errorf("Len() = %d, Limit() = %d", c.Len(), c.Limit())
	}
}

func TestEviction(t *testing.T) {
	type eviction struct {
		key   string
		value int
	}
	var evicted []eviction
	c := New(2, func(k string, v int) { evicted = append(evicted, eviction{k, v}) })

	c.Add("a", 1)
	c.Add("b", 2)
	c.Get("a") // b is now the oldest
	if n := c.Add("c", 3); n != 1 {
		t.Errorf("Add(c) evicted %d, want 1", n)
	}
	if want := []eviction{{"b", 2}}; !slices.Equal(evicted, want) {
		t.Errorf("evicted = %v, want %v", evicted, want)
	}
	if _, ok := c.Get("b"); ok {
		t.Error("evicted key still present")
	}
	if got := c.Values(); !slices.Equal(got, []int{1, 3}) {
		t.Errorf("Values() = %v, want [1 3]", got)
	}
}

func TestRemoveAndPurgeSkipHook(t *testing.T) {
	calls := 0
	c := New(4, func(string, int) { calls++ })
	for i, k := range []string{"a", "b", "c"} {
		c.Add(k, i)
	}
	if !c.Remove("b") || c.Remove("b") {
		t.Error("Remove(b) should succeed once")
	}
	if got := c.Values(); !slices.Equal(got, []int{0, 2}) {
		t.Errorf("Values() = %v, want [0 2]", got)
	}
	c.Purge()
	if c.Len() != 0 || len(c.Values()) != 0 {
		t.Errorf("Len() = %d after Purge", c.Len())
	}
	if calls != 0 {
		t.Errorf("hook called %d times", calls)
	}
	c.Add("d", 4)
	if v, ok := c.Get("d"); !ok || v != 4 {
		t.Error("cache unusable after Purge")
	}
}

func TestRecencyOrder(t *testing.T) {
	c := New[int, int](0, nil)
	for i := 0; i < 5; i++ {
		c.Add(i, i)
	}
	c.Get(0)
	c.Get(3)
	if got, want := c.Values(), []int{1, 2, 4, 0, 3}; !slices.Equal(got, want) {
		t.Errorf("Values() = %v, want %v", got, want)
	}
}
