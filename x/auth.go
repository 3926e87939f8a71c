package x

import (
	"github.com/lockstep-io/lockstep"
)

// Authenticator is an interface we can use to extract authentication
// info from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system, rather
// than hard-coding one implementation for all extensions.
//
// Verifying signatures is not this module's job. Whatever transport
// delivers an operation must have authenticated the caller already and
// expose the resulting conditions through this interface.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled, you may want the
	// GetAddresses helper.
	GetConditions(lockstep.Context) []lockstep.Condition
	// HasAddress checks if any condition matches this address.
	HasAddress(lockstep.Context, lockstep.Address) bool
}

// MultiAuth chains together many Authenticators into one.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls: impls}
}

// GetConditions combines all Conditions from all Authenticators.
func (m MultiAuth) GetConditions(ctx lockstep.Context) []lockstep.Condition {
	var res []lockstep.Condition
	for _, impl := range m.impls {
		add := impl.GetConditions(ctx)
		if len(add) > 0 {
			res = append(res, add...)
		}
	}
	return res
}

// HasAddress returns true iff any Authenticator supports this address.
func (m MultiAuth) HasAddress(ctx lockstep.Context, addr lockstep.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses wraps the GetConditions method of any Authenticator.
func GetAddresses(ctx lockstep.Context, auth Authenticator) []lockstep.Address {
	perms := auth.GetConditions(ctx)
	addrs := make([]lockstep.Address, len(perms))
	for i, p := range perms {
		addrs[i] = p.Address()
	}
	return addrs
}

// MainSigner returns the first condition if any, otherwise nil.
func MainSigner(ctx lockstep.Context, auth Authenticator) lockstep.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllAddresses returns true if all elements in required are also in
// context.
func HasAllAddresses(ctx lockstep.Context, auth Authenticator, required []lockstep.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// HasNAddresses returns true if at least n elements in required are
// also in context. Useful for threshold conditions (1 of 3, 3 of 5,
// etc...).
func HasNAddresses(ctx lockstep.Context, auth Authenticator, required []lockstep.Address, n int) bool {
	if n <= 0 {
		return true
	}
	for _, r := range required {
		if auth.HasAddress(ctx, r) {
			n--
			if n == 0 {
				return true
			}
		}
	}
	return false
}
