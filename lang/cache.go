package lang

import (
	"container/list"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/f-space/rmmz-plugins-sub000/log"
)

// DefaultCacheCapacity is used by [NewCache] for a non-positive capacity.
const DefaultCacheCapacity = 256

type cacheEntry struct {
	key     uint64
	program *Program
}

// Cache is a least recently used set of compiled programs keyed by result
// type and source text. Parse failures are never cached.
//
// It is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	items    map[uint64]*list.Element
	opts     []Option
	logger   log.Logger
}

// NewCache returns an empty cache holding at most capacity programs, each
// compiled with opts.
func NewCache(capacity int, opts ...Option) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}

	return &Cache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[uint64]*list.Element, capacity),
		opts:     opts,
		logger:   makeConfig(opts...).logger,
	}
}

func cacheKey(t Type, src string) uint64 {
	h := xxh3.New()
	_, _ = h.Write([]byte{byte(t)})
	_, _ = h.WriteString(src)

	return h.Sum64()
}

// Compile returns the cached program for (t, src), compiling and caching
// it on a miss.
func (c *Cache) Compile(t Type, src string) (*Program, error) {
	key := cacheKey(t, src)

	if p, ok := c.get(key, t, src); ok {
		return p, nil
	}

	p, err := Compile(t, src, c.opts...)
	if err != nil {
		return nil, err
	}

	c.put(key, p)

	return p, nil
}

func (c *Cache) get(key uint64, t Type, src string) (*Program, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]

	var p *Program
	if ok {
		p = el.Value.(*cacheEntry).program
		// A hash collision is treated as a miss and replaced on put.
		ok = p.typ == t && p.source == src
	}

	if c.logger.Allows(log.LevelTrace) {
		c.logger.Trace("cache lookup",
			slog.String("key", strconv.FormatUint(key, 16)),
			slog.Bool("hit", ok),
			slog.Int("size", c.order.Len()),
		)
	}

	if !ok {
		return nil, false
	}

	c.order.MoveToFront(el)

	return p, true
}

func (c *Cache) put(key uint64, p *Program) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*cacheEntry).program = p
		c.order.MoveToFront(el)

		return
	}

	if c.order.Len() >= c.capacity {
		if last := c.order.Back(); last != nil {
			c.order.Remove(last)
			delete(c.items, last.Value.(*cacheEntry).key)
		}
	}

	c.items[key] = c.order.PushFront(&cacheEntry{key: key, program: p})
}

// Len returns the number of cached programs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}

// Purge removes every cached program.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.items = make(map[uint64]*list.Element, c.capacity)
}
