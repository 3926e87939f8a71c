package store

import "github.com/lockstep-io/lockstep"

// Move references for all storage types into this package for shorter
// names everywhere.

type KVStore = lockstep.KVStore
type ReadOnlyKVStore = lockstep.ReadOnlyKVStore
type SetDeleter = lockstep.SetDeleter
type Batch = lockstep.Batch
type Iterator = lockstep.Iterator
type Model = lockstep.Model
type CacheableKVStore = lockstep.CacheableKVStore
type KVCacheWrap = lockstep.KVCacheWrap
