package orm

import (
	"github.com/lockstep-io/lockstep"
)

// Model is implemented by values stored in a bucket. It can persist
// itself in binary and tell if it is in a valid state to be saved.
type Model interface {
	lockstep.Persistent
	Validate() error
}

// Object is what is stored in the bucket. Key is joined with the
// bucket prefix to form the full db key.
type Object interface {
	Keyed
	Cloneable

	// Validate returns error if the object is not in a valid state to
	// save to the db (eg. field missing, out of range, ...).
	Validate() error

	Value() Model
}

// Reader defines an interface that allows reading objects from the db.
type Reader interface {
	Get(db lockstep.ReadOnlyKVStore, key []byte) (Object, error)
}

// Keyed is anything that can identify itself.
type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable will create a new object that can be loaded into.
type Cloneable interface {
	Clone() Object
}
