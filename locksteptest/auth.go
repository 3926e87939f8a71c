package locksteptest

import (
	"context"
	"fmt"

	"github.com/lockstep-io/lockstep"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced conditions. You can
// use either Signer or Signers (or both) attributes to reference
// conditions. Each time all signers (regardless which attribute) are
// considered.
type Auth struct {
	// Signer represents an authentication of a single signer. This is
	// a convenience attribute when authenticating a single signer.
	Signer lockstep.Condition

	// Signers represents an authentication of multiple signers.
	Signers []lockstep.Condition
}

func (a *Auth) GetConditions(lockstep.Context) []lockstep.Condition {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx lockstep.Context, addr lockstep.Address) bool {
	for _, s := range a.Signers {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	if a.Signer == nil {
		return false
	}
	return addr.Equals(a.Signer.Address())
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve
// conditions.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context. For
	// convenience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetConditions(ctx lockstep.Context, conds ...lockstep.Condition) lockstep.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx lockstep.Context) []lockstep.Condition {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	conds, ok := val.([]lockstep.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []lockstep.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx lockstep.Context, addr lockstep.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
