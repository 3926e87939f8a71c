package vault

import (
	"github.com/lockstep-io/lockstep/errors"
)

// MaxStoredNonces is the capacity of the per wallet nonce history.
// Once exceeded, the oldest nonce is evicted and becomes usable again.
const MaxStoredNonces = 100

// NonceRing is a bounded, insertion ordered history of consumed
// nonces. A nonce present in the ring cannot be reserved again until
// enough newer nonces push it out.
type NonceRing struct {
	// Nonces holds the retained history, oldest first.
	Nonces []int64

	// index mirrors Nonces for O(1) membership checks. It is built
	// lazily so that a ring loaded from storage works without any
	// post-processing step.
	index map[int64]struct{}
}

// Contains returns true if the nonce is still in the retained history.
func (r *NonceRing) Contains(nonce int64) bool {
	r.buildIndex()
	_, ok := r.index[nonce]
	return ok
}

// Reserve appends the nonce to the history, evicting the oldest entry
// if the ring is at capacity. It fails with ErrNonceAlreadyUsed if the
// nonce is still retained.
func (r *NonceRing) Reserve(nonce int64) error {
	if r.Contains(nonce) {
		return errors.Wrapf(ErrNonceAlreadyUsed, "nonce %d", nonce)
	}
	if len(r.Nonces) >= MaxStoredNonces {
		evicted := r.Nonces[0]
		r.Nonces = append(r.Nonces[:0], r.Nonces[1:]...)
		delete(r.index, evicted)
	}
	r.Nonces = append(r.Nonces, nonce)
	r.index[nonce] = struct{}{}
	return nil
}

func (r *NonceRing) buildIndex() {
	if r.index != nil {
		return
	}
	r.index = make(map[int64]struct{}, len(r.Nonces))
	for _, n := range r.Nonces {
		r.index[n] = struct{}{}
	}
}
