// Package lru provides a bounded map that drops its least recently used
// entry when full.
package lru

// node is an entry in the recency list. The head is the most recently used,
// the tail the least.
type node[K comparable, V any] struct {
	key   K
	value V
	prev  *node[K, V]
	next  *node[K, V]
}

// Cache is a map bounded to limit entries. Adding past the limit evicts the
// least recently used entry and hands it to the eviction hook, which is how
// owners release whatever the value holds.
//
// Cache is not safe for concurrent use.
type Cache[K comparable, V any] struct {
	limit   int
	items   map[K]*node[K, V]
	head    *node[K, V]
	tail    *node[K, V]
	onEvict func(K, V)
}

// New creates a cache holding at most limit entries. A limit of 0 or less
// means unbounded. onEvict may be nil.
func New[K comparable, V any](limit int, onEvict func(K, V)) *Cache[K, V] {
	return &Cache[K, V]{
		limit:   limit,
		items:   make(map[K]*node[K, V]),
		onEvict: onEvict,
	}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	n, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(n)
	return n.value, true
}

// Add stores value under key as the most recently used entry, replacing any
// previous value without calling the hook. It returns the number of entries
// evicted to stay within the limit.
func (c *Cache[K, V]) Add(key K, value V) int {
	if n, ok := c.items[key]; ok {
		n.value = value
		c.moveToFront(n)
		return 0
	}
	n := &node[K, V]{key: key, value: value}
	c.items[key] = n
	c.pushFront(n)

	evicted := 0
	for c.limit > 0 && len(c.items) > c.limit {
		oldest := c.tail
		c.unlink(oldest)
		delete(c.items, oldest.key)
		if c.onEvict != nil {
			c.onEvict(oldest.key, oldest.value)
		}
		evicted++
	}
	return evicted
}

// Remove deletes key without calling the hook.
func (c *Cache[K, V]) Remove(key K) bool {
	n, ok := c.items[key]
	if !ok {
		return false
	}
	c.unlink(n)
	delete(c.items, key)
	return true
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int { return len(c.items) }

// Limit returns the capacity, 0 when unbounded.
func (c *Cache[K, V]) Limit() int { return max(c.limit, 0) }

// Values returns the values from least to most recently used.
func (c *Cache[K, V]) Values() []V {
	out := make([]V, 0, len(c.items))
	for n := c.tail; n != nil; n = n.prev {
		out = append(out, n.value)
	}
	return out
}

// Purge drops every entry without calling the hook.
func (c *Cache[K, V]) Purge() {
	c.items = make(map[K]*node[K, V])
	c.head, c.tail = nil, nil
}

func (c *Cache[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *Cache[K, V]) moveToFront(n *node[K, V]) {
	if n == c.head {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}

func (c *Cache[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
}
