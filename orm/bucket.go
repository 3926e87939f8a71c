/*
Package orm provides an easy to use db wrapper.

Break state space into prefixed sections called Buckets. Each bucket
contains only one type of object and has a primary key. Stay away from
reflection magic where possible; better do stuff compile-time static,
even if it is a bit of boilerplate.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/lockstep-io/lockstep"
	"github.com/lockstep-io/lockstep/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket is a generic holder that stores data of one type under a
// common key prefix.
//
// This is a generic building block that should generally be embedded
// in a type-safe wrapper to ensure all data is the same type.
type Bucket struct {
	name   string
	prefix []byte
	proto  Cloneable
}

// NewBucket creates a bucket to store data.
func NewBucket(name string, proto Cloneable) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}

	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  proto,
	}
}

// Name returns the name of the bucket.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix. We copy
// into a new array rather than use append, as we don't want
// consecutive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get one element, or nil if the key holds no data.
func (b Bucket) Get(db lockstep.ReadOnlyKVStore, key []byte) (Object, error) {
	bz, err := db.Get(b.DBKey(key))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, nil
	}
	return b.Parse(key, bz)
}

// Has returns true if the key holds data.
func (b Bucket) Has(db lockstep.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Parse takes a key and value data and reconstructs the data this
// Bucket would return.
//
// Used internally as part of Get. It is exposed mainly as a test
// helper, but can work for any code that wants to parse.
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(value); err != nil {
		return nil, errors.Wrap(err, "unmarshal value")
	}
	obj.SetKey(key)
	return obj, nil
}

// Save will write a model, it must be of the same type as proto.
func (b Bucket) Save(db lockstep.KVStore, model Object) error {
	if err := model.Validate(); err != nil {
		return err
	}

	bz, err := model.Value().Marshal()
	if err != nil {
		return errors.Wrap(err, "marshal value")
	}
	return db.Set(b.DBKey(model.Key()), bz)
}

// Delete will remove the value at a key.
func (b Bucket) Delete(db lockstep.KVStore, key []byte) error {
	return db.Delete(b.DBKey(key))
}

// Iterate walks all objects in the bucket in ascending key order and
// calls fn for each. Returning an error from fn stops the walk and the
// error is passed through.
func (b Bucket) Iterate(db lockstep.ReadOnlyKVStore, fn func(Object) error) error {
	iter, err := db.Iterator(b.prefix, prefixEnd(b.prefix))
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.Valid() {
		obj, err := b.Parse(iter.Key()[len(b.prefix):], iter.Value())
		if err != nil {
			return err
		}
		if err := fn(obj); err != nil {
			return err
		}
		if err := iter.Next(); err != nil {
			return err
		}
	}
	return nil
}

// prefixEnd returns the lowest key that is above all keys sharing the
// given prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	// prefix is all 0xff, iterate to the very end
	return nil
}
