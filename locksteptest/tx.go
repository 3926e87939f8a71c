package locksteptest

import "github.com/lockstep-io/lockstep"

// Tx represents a transaction carrying a single message.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg lockstep.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ lockstep.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (lockstep.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Unmarshal([]byte) error {
	panic("not implemented")
}

func (tx *Tx) Marshal() ([]byte, error) {
	panic("not implemented")
}

// Msg is a mock message.
type Msg struct {
	// RoutePath is returned by the Path method, consumed by the router.
	RoutePath string
	// Serialized represents the serialized form of this message.
	Serialized []byte
	// Err if set is returned by any method call.
	Err error
}

var _ lockstep.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}

func (m *Msg) Unmarshal(b []byte) error {
	m.Serialized = b
	return m.Err
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}
