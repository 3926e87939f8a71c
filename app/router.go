// Package app wires handlers into an application shell that applies
// every operation atomically: delivered against a cache wrap that is
// written through on success and discarded on failure.
package app

import (
	"fmt"
	"regexp"

	"github.com/lockstep-io/lockstep"
	"github.com/lockstep-io/lockstep/errors"
)

// Router allows us to register many handlers with different paths and
// then direct each message to the registered handler.
type Router struct {
	routes map[string]lockstep.Handler
}

var _ lockstep.Registry = Router{}
var _ lockstep.Handler = Router{}

// isPath is the RegExp to ensure the routes make sense.
var isPath = regexp.MustCompile(`^[a-z0-9_]+/[a-z0-9_]+$`).MatchString

// NewRouter initializes a router with no routes.
func NewRouter() Router {
	return Router{
		routes: make(map[string]lockstep.Handler),
	}
}

// Handle adds a new Handler for the given path. Panics on an invalid
// path or duplicate registration, so configure routes during startup.
func (r Router) Handle(path string, h lockstep.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this path, or a handler
// that always fails with ErrNotFound.
func (r Router) handler(path string) lockstep.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the proper handler based on the message path.
func (r Router) Check(ctx lockstep.Context, db lockstep.KVStore, tx lockstep.Tx) (lockstep.CheckResult, error) {
	return r.handler(lockstep.GetPath(tx)).Check(ctx, db, tx)
}

// Deliver dispatches to the proper handler based on the message path.
func (r Router) Deliver(ctx lockstep.Context, db lockstep.KVStore, tx lockstep.Tx) (lockstep.DeliverResult, error) {
	return r.handler(lockstep.GetPath(tx)).Deliver(ctx, db, tx)
}

type notFoundHandler string

var _ lockstep.Handler = notFoundHandler("")

func (h notFoundHandler) Check(lockstep.Context, lockstep.KVStore, lockstep.Tx) (lockstep.CheckResult, error) {
	return lockstep.CheckResult{}, errors.Wrapf(errors.ErrNotFound, "no handler for %q", string(h))
}

func (h notFoundHandler) Deliver(lockstep.Context, lockstep.KVStore, lockstep.Tx) (lockstep.DeliverResult, error) {
	return lockstep.DeliverResult{}, errors.Wrapf(errors.ErrNotFound, "no handler for %q", string(h))
}
