package lockstep

import (
	"fmt"
	"strconv"
)

// KVPair is a key/value tag attached to a delivery result. Tags are
// consumed by external observability collaborators to index and search
// the operation history.
type KVPair struct {
	Key   []byte
	Value []byte
}

// Pair is a convenience constructor for string tags.
func Pair(key, value string) KVPair {
	return KVPair{Key: []byte(key), Value: []byte(value)}
}

// PairInt encodes a numeric tag value in decimal.
func PairInt(key string, value int64) KVPair {
	return KVPair{Key: []byte(key), Value: strconv.AppendInt(nil, value, 10)}
}

// CheckResult captures any non-error result of a validation pass, to
// make sure people use error for error cases.
type CheckResult struct {
	// Data is a machine-parseable return value, like id of created
	// entity.
	Data []byte
	// Log is human-readable informational string.
	Log string
	// GasAllocated is the maximum units of work we allow this
	// operation to perform.
	GasAllocated int64
}

// NewCheck sets the gas used and the log message but no more info.
// These are the most common info needed to be set by the Handler.
func NewCheck(gasAllocated int64, log string) CheckResult {
	return CheckResult{
		GasAllocated: gasAllocated,
		Log:          log,
	}
}

// DeliverResult captures any non-error result of applying an
// operation.
type DeliverResult struct {
	// Data is a machine-parseable return value, like id of created
	// entity.
	Data []byte
	// Log is human-readable informational string.
	Log string
	// Tags, if present, can be used by the surrounding system to index
	// and search the operation history.
	Tags []KVPair
	// GasUsed is the amount of work performed by this operation.
	GasUsed int64
}

func (d DeliverResult) String() string {
	return fmt.Sprintf("DeliverResult data=%X log=%q tags=%d", d.Data, d.Log, len(d.Tags))
}
