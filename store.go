package lockstep

// ReadOnlyKVStore is a simple interface to query data.
type ReadOnlyKVStore interface {
	// Get returns nil iff key doesn't exist. Panics on nil key.
	Get(key []byte) ([]byte, error)

	// Has checks if a key exists. Panics on nil key.
	Has(key []byte) (bool, error)

	// Iterator over a domain of keys in ascending order. End is
	// exclusive. Start must be less than end, or the Iterator is
	// invalid. A nil start iterates from the first key, a nil end
	// iterates through the last one.
	// CONTRACT: No writes may happen within a domain while an iterator
	// exists over it.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator iterates the same [start, end) domain as
	// Iterator, but in descending order.
	// CONTRACT: No writes may happen within a domain while an iterator
	// exists over it.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is a minimal writable interface.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is a simple interface to get/set data.
//
// For simplicity, we require all backing stores to implement this
// interface. They *may* implement other methods as well, but at least
// these are required.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter

	// NewBatch returns a batch that can write multiple ops atomically.
	NewBatch() Batch
}

// Batch groups writes to be committed in one shot.
type Batch interface {
	SetDeleter
	Write() error
}

/*
Iterator allows us to access a set of items within a range of keys.
These may all be preloaded, or loaded on demand.

	var itr Iterator = ...
	defer itr.Close()

	for ; itr.Valid(); itr.Next() {
		k, v := itr.Key(), itr.Value()
		// ...
	}
*/
type Iterator interface {
	// Valid returns whether the current position is valid.
	// Once invalid, an Iterator is forever invalid.
	Valid() bool

	// Next moves the iterator to the next sequential key in the
	// database, as defined by order of iteration.
	//
	// If Valid returns false, this method will panic.
	Next() error

	// Key returns the key of the cursor.
	// If Valid returns false, this method will panic.
	// CONTRACT: key readonly []byte
	Key() (key []byte)

	// Value returns the value of the cursor.
	// If Valid returns false, this method will panic.
	// CONTRACT: value readonly []byte
	Value() (value []byte)

	// Close releases the Iterator.
	Close()
}

// Model groups a key/value pair as stored or returned by a query.
type Model struct {
	Key   []byte
	Value []byte
}

// CacheableKVStore is a KVStore that supports CacheWrapping.
//
// CacheWrap() should not return a Committer, since Commit() on
// cache-wraps make no sense.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap allows us to maintain a scratch-pad of uncommitted data
// that we can view with all queries.
//
// At the end, call Write to use the cached data, or Discard to drop it.
type KVCacheWrap interface {
	// CacheableKVStore allows us to use this Cache recursively.
	CacheableKVStore

	// Write syncs with the underlying store.
	Write() error

	// Discard invalidates this CacheWrap and releases all data.
	Discard()
}
