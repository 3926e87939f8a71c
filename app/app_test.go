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
	"github.com/lockstep-io/lockstep/x/vault"
)

// writeThenFail writes a key and then errors, to prove that a failed
// delivery leaves no residue.
type writeThenFail struct{}

func (writeThenFail) Check(ctx lockstep.Context, db lockstep.KVStore, tx lockstep.Tx) (lockstep.CheckResult, error) {
	return lockstep.CheckResult{}, nil
}

func (writeThenFail) Deliver(ctx lockstep.Context, db lockstep.KVStore, tx lockstep.Tx) (lockstep.DeliverResult, error) {
	if err := db.Set([]byte("dirty"), []byte("write")); err != nil {
		return lockstep.DeliverResult{}, err
	}
	return lockstep.DeliverResult{}, errors.ErrState.New("fail after write")
}

func TestDeliverDiscardsOnError(t *testing.T) {
	db := store.MemStore()
	r := NewRouter()
	r.Handle("test/fail", writeThenFail{})

	a := New(db, r, nil)
	tx := &locksteptest.Tx{Msg: &locksteptest.Msg{RoutePath: "test/fail"}}

	_, err := a.Deliver(context.Background(), tx)
	assert.True(t, errors.ErrState.Is(err))

	has, err := db.Has([]byte("dirty"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCheckNeverPersists(t *testing.T) {
	db := store.MemStore()
	auth := &locksteptest.CtxAuth{Key: "auth"}
	a := newVaultApp(db, auth)

	signer := locksteptest.NewCondition()
	ctx := auth.SetConditions(context.Background(), signer)
	tx := &locksteptest.Tx{Msg: &vault.CreateWalletMsg{
		ID:        []byte("main"),
		Owners:    []lockstep.Address{signer.Address()},
		Threshold: 1,
	}}

	_, err := a.Check(ctx, tx)
	require.NoError(t, err)

	// check must not have created the wallet
	_, err = a.Deliver(ctx, tx)
	require.NoError(t, err)
}

// End to end: the full wallet lifecycle through the application shell.
func TestVaultLifecycle(t *testing.T) {
	db := store.MemStore()
	auth := &locksteptest.CtxAuth{Key: "auth"}
	a := newVaultApp(db, auth)

	alice := locksteptest.NewCondition()
	bob := locksteptest.NewCondition()
	carl := locksteptest.NewCondition()
	as := func(signer lockstep.Condition) lockstep.Context {
		return auth.SetConditions(context.Background(), signer)
	}

	res, err := a.Deliver(as(alice), &locksteptest.Tx{Msg: &vault.CreateWalletMsg{
		ID:        []byte("treasury"),
		Owners:    []lockstep.Address{alice.Address(), bob.Address(), carl.Address()},
		Threshold: 2,
	}})
	require.NoError(t, err)
	walletKey := res.Data

	_, err = a.Deliver(as(alice), &locksteptest.Tx{Msg: &vault.CreateTransactionMsg{
		Wallet: walletKey,
		Nonce:  7,
		Target: locksteptest.NewCondition().Address(),
		Data:   []byte("payload"),
	}})
	require.NoError(t, err)

	approve := &locksteptest.Tx{Msg: &vault.ApproveTransactionMsg{Wallet: walletKey, Nonce: 7}}
	execute := &locksteptest.Tx{Msg: &vault.ExecuteTransactionMsg{Wallet: walletKey, Nonce: 7}}

	_, err = a.Deliver(as(alice), approve)
	require.NoError(t, err)
	_, err = a.Deliver(as(carl), execute)
	assert.True(t, vault.ErrNotEnoughApprovals.Is(err))

	_, err = a.Deliver(as(bob), approve)
	require.NoError(t, err)
	_, err = a.Deliver(as(carl), execute)
	require.NoError(t, err)

	// a failed redo leaves the executed proposal untouched
	_, err = a.Deliver(as(carl), execute)
	assert.True(t, vault.ErrAlreadyExecuted.Is(err))
	_, err = a.Deliver(as(carl), approve)
	assert.True(t, vault.ErrAlreadyExecuted.Is(err))

	// the nonce stays spent
	_, err = a.Deliver(as(bob), &locksteptest.Tx{Msg: &vault.CreateTransactionMsg{
		Wallet: walletKey,
		Nonce:  7,
		Target: locksteptest.NewCondition().Address(),
	}})
	assert.True(t, vault.ErrNonceAlreadyUsed.Is(err))
}

func newVaultApp(db lockstep.CacheableKVStore, auth *locksteptest.CtxAuth) *App {
	r := NewRouter()
	vault.RegisterRoutes(r, auth, vault.LogExecutor())
	handler := ChainDecorators(
		NewRecovery(),
		NewLogging(),
	).WithHandler(r)
	return New(db, handler, nil)
}
