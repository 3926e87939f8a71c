package app

import (
	"sync"

	"github.com/lockstep-io/lockstep"
	"go.uber.org/zap"
)

// App applies transactions to a backing store, one at a time.
//
// Every Deliver runs against a fresh cache wrap of the store: written
// through only when the handler succeeds, discarded otherwise. A
// rejected operation therefore leaves no partial mutation behind.
// Check always runs against a throwaway wrap.
//
// The mutex serializes all writes. Concurrent approvals or proposals
// racing on the same record are applied in some order, and the loser
// observes the winner's state.
type App struct {
	mu      sync.Mutex
	store   lockstep.CacheableKVStore
	handler lockstep.Handler
	logger  *zap.Logger
}

// New constructs an application around the store and handler stack.
func New(store lockstep.CacheableKVStore, handler lockstep.Handler, logger *zap.Logger) *App {
	if logger == nil {
		logger = lockstep.DefaultLogger
	}
	return &App{
		store:   store,
		handler: handler,
		logger:  logger,
	}
}

// Check validates the transaction without changing any state.
func (a *App) Check(ctx lockstep.Context, tx lockstep.Tx) (lockstep.CheckResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cache := a.store.CacheWrap()
	defer cache.Discard()

	return a.handler.Check(lockstep.WithLogger(ctx, a.logger), cache, tx)
}

// Deliver applies the transaction atomically. On success the cache is
// written through to the backing store, on failure it is discarded and
// the error returned.
func (a *App) Deliver(ctx lockstep.Context, tx lockstep.Tx) (lockstep.DeliverResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cache := a.store.CacheWrap()
	res, err := a.handler.Deliver(lockstep.WithLogger(ctx, a.logger), cache, tx)
	if err != nil {
		cache.Discard()
		return res, err
	}
	if err := cache.Write(); err != nil {
		return res, err
	}
	return res, nil
}
