package app

import (
	"github.com/lockstep-io/lockstep"
	"github.com/lockstep-io/lockstep/errors"
)

// Recovery is a decorator to recover from panics in operations, so we
// can report them as errors.
type Recovery struct{}

var _ lockstep.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator.
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors.
func (r Recovery) Check(ctx lockstep.Context, store lockstep.KVStore, tx lockstep.Tx, next lockstep.Checker) (res lockstep.CheckResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = normalizePanic(p)
		}
	}()
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors.
func (r Recovery) Deliver(ctx lockstep.Context, store lockstep.KVStore, tx lockstep.Tx, next lockstep.Deliverer) (res lockstep.DeliverResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = normalizePanic(p)
		}
	}()
	return next.Deliver(ctx, store, tx)
}

// normalizePanic attaches a stack so the failure can be debugged.
func normalizePanic(p interface{}) error {
	if err, ok := p.(error); ok {
		return errors.Wrap(err, "recovered panic")
	}
	return errors.Wrapf(errors.ErrPanic, "%v", p)
}
