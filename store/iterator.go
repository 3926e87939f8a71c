package store

import (
	"bytes"

	"github.com/google/btree"
)

// cacheIter walks the btree entries captured for one range query. The
// entries are snapshotted up front, so the cursor survives cache
// mutations. A cache wrap only holds the writes of a single transition,
// so the snapshot stays small.
type cacheIter struct {
	items []keyer
	pos   int
}

func ascendBtree(bt *btree.BTree, start, end []byte) *cacheIter {
	c := &cacheIter{}
	switch {
	case start == nil && end == nil:
		bt.Ascend(c.collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, c.collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, c.collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, c.collect)
	}
	return c
}

func descendBtree(bt *btree.BTree, start, end []byte) *cacheIter {
	c := &cacheIter{}
	switch {
	case start == nil && end == nil:
		bt.Descend(c.collect)
	case start == nil:
		bt.DescendLessOrEqual(bkeyLess{end}, c.collect)
	case end == nil:
		bt.DescendGreaterThan(bkeyLess{start}, c.collect)
	default:
		bt.DescendRange(bkeyLess{end}, bkeyLess{start}, c.collect)
	}
	return c
}

func (c *cacheIter) collect(item btree.Item) bool {
	c.items = append(c.items, item.(keyer))
	return true
}

func (c *cacheIter) valid() bool {
	return c.pos < len(c.items)
}

func (c *cacheIter) peek() keyer {
	return c.items[c.pos]
}

func (c *cacheIter) next() {
	c.pos++
}

// lead marks which side of the merge holds the next key.
type lead int

const (
	fromCache lead = iota
	fromParent
	fromBoth
	exhausted
)

// mergeIter layers the cached writes over the parent iterator, yielding
// keys in iteration order. Entries deleted in the cache mask the parent
// and are skipped.
type mergeIter struct {
	cache  *cacheIter
	parent Iterator
	// reverse flips key comparison for descending iteration
	reverse bool
}

var _ Iterator = (*mergeIter)(nil)

func mergeIters(cache *cacheIter, parent Iterator, reverse bool) (*mergeIter, error) {
	m := &mergeIter{
		cache:   cache,
		parent:  parent,
		reverse: reverse,
	}
	if err := m.skipDeleted(); err != nil {
		m.Close()
		return nil, err
	}
	return m, nil
}

// Valid implements Iterator and returns true iff it can be read.
func (m *mergeIter) Valid() bool {
	return m.cache.valid() || m.parentValid()
}

// Next moves the iterator to the next sequential key in the database,
// as defined by order of iteration.
//
// If Valid returns false, this method will panic.
func (m *mergeIter) Next() error {
	switch m.lead() {
	case fromCache:
		m.cache.next()
	case fromBoth:
		m.cache.next()
		fallthrough
	case fromParent:
		if err := m.parent.Next(); err != nil {
			return err
		}
	default:
		panic("advanced past the end")
	}
	return m.skipDeleted()
}

// Key returns the key of the cursor.
func (m *mergeIter) Key() []byte {
	switch m.lead() {
	case fromCache, fromBoth:
		return m.cache.peek().Key()
	case fromParent:
		return m.parent.Key()
	default:
		panic("advanced past the end")
	}
}

// Value returns the value of the cursor.
func (m *mergeIter) Value() []byte {
	switch m.lead() {
	case fromCache, fromBoth:
		return m.cache.peek().(setItem).value
	case fromParent:
		return m.parent.Value()
	default:
		panic("advanced past the end")
	}
}

// Close releases the Iterator.
func (m *mergeIter) Close() {
	if m.parent != nil {
		m.parent.Close()
	}
}

// skipDeleted advances over every cache tombstone at the cursor, along
// with the parent entry it masks.
func (m *mergeIter) skipDeleted() error {
	for {
		at := m.lead()
		if at != fromCache && at != fromBoth {
			return nil
		}
		if _, gone := m.cache.peek().(deletedItem); !gone {
			return nil
		}
		m.cache.next()
		if at == fromBoth {
			if err := m.parent.Next(); err != nil {
				return err
			}
		}
	}
}

// lead reports which side holds the next key in iteration order.
func (m *mergeIter) lead() lead {
	switch {
	case !m.cache.valid() && !m.parentValid():
		return exhausted
	case !m.parentValid():
		return fromCache
	case !m.cache.valid():
		return fromParent
	}

	cmp := bytes.Compare(m.cache.peek().Key(), m.parent.Key())
	if m.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return fromCache
	case cmp > 0:
		return fromParent
	default:
		return fromBoth
	}
}

func (m *mergeIter) parentValid() bool {
	return m.parent != nil && m.parent.Valid()
}
