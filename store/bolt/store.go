/*
Package bolt provides a boltdb backed KVStore.

It is the persistent counterpart of store.MemStore. All writes of one
operation are collected in a batch and committed within a single bolt
update transaction, which gives the exclusive-write semantics the
authorization core requires: two operations never interleave their
writes on the same file.
*/
package bolt

import (
	"bytes"
	"path/filepath"

	"github.com/boltdb/bolt"

	"github.com/lockstep-io/lockstep/errors"
	"github.com/lockstep-io/lockstep/store"
)

// bucketName is the single bolt bucket all data lives in. Record
// namespacing is done via key prefixes by the orm layer, not via bolt
// buckets.
var bucketName = []byte("lockstep")

// Store is a CacheableKVStore persisted in a bolt file.
type Store struct {
	db *bolt.DB
}

var _ store.CacheableKVStore = (*Store)(nil)

// Open creates or opens a bolt database under the given directory.
func Open(dir, name string) (*Store, error) {
	db, err := bolt.Open(filepath.Join(dir, name+".db"), 0600, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "create bucket: %s", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying bolt file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns nil iff key doesn't exist.
func (s *Store) Get(key []byte) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if raw := tx.Bucket(bucketName).Get(key); raw != nil {
			value = append([]byte(nil), raw...)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return value, nil
}

// Has checks if a key exists.
func (s *Store) Has(key []byte) (bool, error) {
	value, err := s.Get(key)
	return value != nil, err
}

// Set stores the key/value pair in its own write transaction.
func (s *Store) Set(key, value []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(key, value)
	})
	return errors.Wrap(err, "bolt put")
}

// Delete removes the key in its own write transaction.
func (s *Store) Delete(key []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete(key)
	})
	return errors.Wrap(err, "bolt delete")
}

// Iterator over a domain of keys in ascending order. The whole range
// is materialized under a read transaction, so the iterator stays
// valid while later writes happen.
func (s *Store) Iterator(start, end []byte) (store.Iterator, error) {
	return s.rangeModels(start, end, false)
}

// ReverseIterator iterates the same [start, end) domain in descending
// order.
func (s *Store) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return s.rangeModels(start, end, true)
}

func (s *Store) rangeModels(lo, hi []byte, reverse bool) (store.Iterator, error) {
	var models []store.Model
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		var k, v []byte
		if lo == nil {
			k, v = c.First()
		} else {
			k, v = c.Seek(lo)
		}
		for ; k != nil; k, v = c.Next() {
			if hi != nil && bytes.Compare(k, hi) >= 0 {
				break
			}
			models = append(models, store.Model{
				Key:   append([]byte(nil), k...),
				Value: append([]byte(nil), v...),
			})
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if reverse {
		for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
			models[i], models[j] = models[j], models[i]
		}
	}
	return store.NewSliceIterator(models), nil
}

// NewBatch returns a batch whose Write commits all collected ops in a
// single bolt update transaction.
func (s *Store) NewBatch() store.Batch {
	return &batch{db: s.db}
}

// CacheWrap buffers writes in a btree until Write, then commits them
// atomically through a batch.
func (s *Store) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

type batch struct {
	db  *bolt.DB
	ops []store.Op
}

var _ store.Batch = (*batch)(nil)

func (b *batch) Set(key, value []byte) error {
	b.ops = append(b.ops, store.SetOp(key, value))
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.ops = append(b.ops, store.DelOp(key))
	return nil
}

// Write applies all ops within one bolt transaction and resets.
func (b *batch) Write() error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucketName)
		for _, op := range b.ops {
			if err := op.Apply(putter{bkt}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	b.ops = nil
	return nil
}

// putter adapts a bolt bucket to the SetDeleter interface.
type putter struct {
	bkt *bolt.Bucket
}

func (p putter) Set(key, value []byte) error {
	return p.bkt.Put(key, value)
}

func (p putter) Delete(key []byte) error {
	return p.bkt.Delete(key)
}
