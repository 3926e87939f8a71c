package lockstep

import (
	"reflect"

	"github.com/lockstep-io/lockstep/errors"
)

// Marshaller is anything that can be represented in binary.
//
// Marshal may validate the data before serializing it and unless you
// previously validated the struct, errors should be expected.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent supports Marshal and Unmarshal.
//
// This is separated from Marshaller, as Unmarshal almost always
// requires a pointer, and functions that only need to marshal bytes
// can use the Marshaller interface to access non-pointers.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Msg is a request to make a single state transition. It is just the
// request, and must be validated by the Handlers. All authentication
// information is in the wrapping Tx.
type Msg interface {
	Persistent

	// Validate performs a sanity check on the message content. It does
	// not guarantee the message can be applied, only that it is well
	// formed.
	Validate() error

	// Path returns the message path.
	//
	// This is used by the Router to locate the proper Handler. Msg
	// should be created alongside the Handler that corresponds to them.
	//
	// Must be in the form of "namespace/name".
	Path() string
}

// Tx represents the data sent from the caller. It includes the actual
// message, along with anything else needed to pass through middleware.
//
// Authentication data (signatures) lives on transport-specific tx
// wrappers and is verified before this module is invoked.
type Tx interface {
	Persistent

	// GetMsg returns the action we wish to communicate.
	GetMsg() (Msg, error)
}

// TxDecoder can parse bytes into a Tx.
type TxDecoder func(txBytes []byte) (Tx, error)

// GetPath returns the path of the message, or (missing) if no message.
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg extracts the message from the transaction, ensures it is of
// the expected type and that it passes its own validation. On success
// the dst is overwritten with the message content.
func LoadMsg(tx Tx, dst Msg) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "get msg")
	}

	vDst := reflect.ValueOf(dst)
	vMsg := reflect.ValueOf(msg)
	if vDst.Kind() != reflect.Ptr || vMsg.Kind() != reflect.Ptr {
		return errors.Wrap(errors.ErrType, "both message and destination must be pointers")
	}
	if vDst.Type() != vMsg.Type() {
		return errors.Wrapf(errors.ErrType, "want %T, got %T", dst, msg)
	}

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}

	vDst.Elem().Set(vMsg.Elem())
	return nil
}
