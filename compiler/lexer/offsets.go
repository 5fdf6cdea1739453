package lexer

import (
	"sort"
	"sync"
)

// offsetTable maps byte offsets to 1-based line/column positions. It is built
// once per source by scanning for newlines and answers lookups with a binary
// search, which keeps position recovery cheap inside pre-scanned raw regions.
type offsetTable struct {
	// starts[i] is the byte offset of the first character of line i+1.
	starts []int
}

func buildOffsets(source string) *offsetTable {
	starts := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &offsetTable{starts: starts}
}

// position returns the 1-based line and column of a byte offset.
func (t *offsetTable) position(offset int) (line, column int) {
	i := sort.Search(len(t.starts), func(i int) bool {
		return t.starts[i] > offset
	}) - 1
	return i + 1, offset - t.starts[i] + 1
}

// offsetCache memoizes offset tables across compiles. It is the only state
// shared between concurrent compilations, so it is mutex-guarded and bounded:
// a fixed capacity with least-recently-used eviction by reinsertion.
type offsetCache struct {
	mu       sync.Mutex
	capacity int
	tables   map[string]*offsetTable
	order    []string
}

const offsetCacheCapacity = 32

var sharedOffsets = &offsetCache{
	capacity: offsetCacheCapacity,
	tables:   make(map[string]*offsetTable),
}

func (c *offsetCache) get(source string) *offsetTable {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.tables[source]; ok {
		c.touch(source)
		return t
	}
	t := buildOffsets(source)
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.tables, oldest)
	}
	c.tables[source] = t
	c.order = append(c.order, source)
	return t
}

// touch reinserts a key at the most-recent end of the eviction order.
func (c *offsetCache) touch(source string) {
	for i, k := range c.order {
		if k == source {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, source)
			return
		}
	}
}
