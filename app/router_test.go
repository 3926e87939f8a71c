package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockstep-io/lockstep/errors"
	"github.com/lockstep-io/lockstep/locksteptest"
	"github.com/lockstep-io/lockstep/store"
)

func TestRouterSuccess(t *testing.T) {
	r := NewRouter()
	h := &locksteptest.Handler{}
	r.Handle("test/good", h)

	tx := &locksteptest.Tx{Msg: &locksteptest.Msg{RoutePath: "test/good"}}
	db := store.MemStore()

	_, err := r.Check(context.Background(), db, tx)
	require.NoError(t, err)
	_, err = r.Deliver(context.Background(), db, tx)
	require.NoError(t, err)
	assert.Equal(t, 2, h.CallCount())
}

func TestRouterNoHandler(t *testing.T) {
	r := NewRouter()
	tx := &locksteptest.Tx{Msg: &locksteptest.Msg{RoutePath: "test/missing"}}
	db := store.MemStore()

	_, err := r.Check(context.Background(), db, tx)
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Deliver(context.Background(), db, tx)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestRouterInvalidRegistration(t *testing.T) {
	r := NewRouter()
	h := &locksteptest.Handler{}

	assert.Panics(t, func() { r.Handle("no-path", h) })
	assert.Panics(t, func() { r.Handle("UPPER/case", h) })

	r.Handle("test/good", h)
	assert.Panics(t, func() { r.Handle("test/good", h) })
}
