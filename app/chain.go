package app

import (
	"reflect"

	"github.com/lockstep-io/lockstep"
)

// Decorators holds a chain of decorators, not yet resolved by a
// Handler.
type Decorators struct {
	chain []lockstep.Decorator
}

// ChainDecorators takes a chain of decorators, and upon adding a final
// Handler (often a Router), returns a Handler that will execute this
// whole stack.
//
//	app.ChainDecorators(
//	    app.NewRecovery(),
//	    app.NewLogging(),
//	).WithHandler(
//	    router,
//	)
func ChainDecorators(chain ...lockstep.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain.
func (d Decorators) Chain(chain ...lockstep.Decorator) Decorators {
	chain = cutoffNil(chain)
	return Decorators{chain: append(d.chain, chain...)}
}

// cutoffNil will in-place remove all nil values from given slice.
func cutoffNil(ds []lockstep.Decorator) []lockstep.Decorator {
	var cutoff int
	for i := 0; i < len(ds); i++ {
		ds[i-cutoff] = ds[i]
		if ds[i] == nil || (reflect.ValueOf(ds[i]).Kind() == reflect.Ptr && reflect.ValueOf(ds[i]).IsNil()) {
			cutoff++
		}
	}
	return ds[:len(ds)-cutoff]
}

// WithHandler resolves the stack and returns a concrete Handler that
// will pass through the chain of decorators before calling the final
// Handler.
func (d Decorators) WithHandler(h lockstep.Handler) lockstep.Handler {
	// wrap from the last decorator to the first one, as the top of the
	// chain is understood to be executed first
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step captures one step executing a decorator around a specific
// Handler.
type step struct {
	d    lockstep.Decorator
	next lockstep.Handler
}

var _ lockstep.Handler = step{}

func (s step) Check(ctx lockstep.Context, store lockstep.KVStore, tx lockstep.Tx) (lockstep.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

func (s step) Deliver(ctx lockstep.Context, store lockstep.KVStore, tx lockstep.Tx) (lockstep.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
