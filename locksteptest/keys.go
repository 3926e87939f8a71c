package locksteptest

import (
	"github.com/lockstep-io/lockstep"
	"github.com/lockstep-io/lockstep/crypto"
)

// NewKey returns a fresh random signer.
func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the condition of a fresh random signer.
func NewCondition() lockstep.Condition {
	return NewKey().PublicKey().Condition()
}
