package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockstep-io/lockstep"
	"github.com/lockstep-io/lockstep/errors"
	"github.com/lockstep-io/lockstep/locksteptest"
	"github.com/lockstep-io/lockstep/store"
)

type panicHandler struct{}

func (panicHandler) Check(lockstep.Context, lockstep.KVStore, lockstep.Tx) (lockstep.CheckResult, error) {
	panic("check boom")
}

func (panicHandler) Deliver(lockstep.Context, lockstep.KVStore, lockstep.Tx) (lockstep.DeliverResult, error) {
	panic("deliver boom")
}

func TestRecoveryTurnsPanicIntoError(t *testing.T) {
	h := ChainDecorators(NewRecovery()).WithHandler(panicHandler{})
	db := store.MemStore()
	tx := &locksteptest.Tx{Msg: &locksteptest.Msg{RoutePath: "test/panic"}}

	_, err := h.Check(context.Background(), db, tx)
	require.Error(t, err)
	assert.True(t, errors.ErrPanic.Is(err))

	_, err = h.Deliver(context.Background(), db, tx)
	require.Error(t, err)
	assert.True(t, errors.ErrPanic.Is(err))
}

func TestChainPassesThrough(t *testing.T) {
	inner := &locksteptest.Handler{
		CheckResult:   lockstep.CheckResult{Log: "check"},
		DeliverResult: lockstep.DeliverResult{Log: "deliver"},
	}
	h := ChainDecorators(
		NewRecovery(),
		NewLogging(),
		nil, // nils are dropped
	).WithHandler(inner)

	db := store.MemStore()
	tx := &locksteptest.Tx{Msg: &locksteptest.Msg{RoutePath: "test/good"}}

	cres, err := h.Check(context.Background(), db, tx)
	require.NoError(t, err)
	assert.Equal(t, "check", cres.Log)

	dres, err := h.Deliver(context.Background(), db, tx)
	require.NoError(t, err)
	assert.Equal(t, "deliver", dres.Log)
	assert.Equal(t, 2, inner.CallCount())
}
