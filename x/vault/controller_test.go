package vault

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

// recordingExecutor captures dispatched instructions and can be primed
// to fail.
type recordingExecutor struct {
	calls []Instruction
	err   error
}

func (e *recordingExecutor) Execute(ctx lockstep.Context, in Instruction) ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.calls = append(e.calls, in)
	return []byte("ok"), nil
}

type controllerFixture struct {
	ctrl     Controller
	executor *recordingExecutor
	db       lockstep.KVStore
	ctx      lockstep.Context

	a, b, c   lockstep.Address
	walletKey []byte
}

func newControllerFixture(t *testing.T, threshold int32) *controllerFixture {
	t.Helper()

	f := &controllerFixture{
		executor: &recordingExecutor{},
		db:       store.MemStore(),
		ctx:      context.Background(),
		a:        locksteptest.NewCondition().Address(),
		b:        locksteptest.NewCondition().Address(),
		c:        locksteptest.NewCondition().Address(),
	}
	f.ctrl = NewController(f.executor)

	key, err := f.ctrl.CreateWallet(f.ctx, f.db, f.a, []byte("main"),
		[]lockstep.Address{f.a, f.b, f.c}, threshold)
	require.NoError(t, err)
	f.walletKey = key
	return f
}

func (f *controllerFixture) propose(t *testing.T, nonce int64) *Proposal {
	t.Helper()
	p, err := f.ctrl.CreateTransaction(f.ctx, f.db, f.walletKey, f.a, nonce,
		locksteptest.NewCondition().Address(), nil, []byte("payload"))
	require.NoError(t, err)
	return p
}

func TestCreateWalletRejectsInvalid(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(&recordingExecutor{})
	ctx := context.Background()
	creator := locksteptest.NewCondition().Address()
	a := locksteptest.NewCondition().Address()

	cases := map[string]struct {
		owners    []lockstep.Address
		threshold int32
		wantErr   *errors.Error
	}{
		"no owners":        {owners: nil, threshold: 1, wantErr: ErrNoOwners},
		"duplicate owners": {owners: []lockstep.Address{a, a, creator}, threshold: 1, wantErr: ErrDuplicateOwners},
		"zero threshold":   {owners: []lockstep.Address{a}, threshold: 0, wantErr: ErrInvalidThreshold},
		"threshold too high": {
			owners: []lockstep.Address{a, creator}, threshold: 3, wantErr: ErrInvalidThreshold,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ctrl.CreateWallet(ctx, db, creator, []byte("main"), tc.owners, tc.threshold)
			assert.True(t, tc.wantErr.Is(err), "got %+v", err)

			// nothing was persisted
			has, err := ctrl.wallets.Has(db, WalletKey(creator, []byte("main")))
			require.NoError(t, err)
			assert.False(t, has)
		})
	}
}

func TestCreateWalletRejectsDuplicateKey(t *testing.T) {
	f := newControllerFixture(t, 2)

	_, err := f.ctrl.CreateWallet(f.ctx, f.db, f.a, []byte("main"),
		[]lockstep.Address{f.a}, 1)
	assert.True(t, errors.ErrDuplicate.Is(err))

	// same id under another creator is fine
	_, err = f.ctrl.CreateWallet(f.ctx, f.db, f.b, []byte("main"),
		[]lockstep.Address{f.b}, 1)
	assert.NoError(t, err)
}

func TestCreateTransactionChecks(t *testing.T) {
	f := newControllerFixture(t, 2)
	outsider := locksteptest.NewCondition().Address()
	target := locksteptest.NewCondition().Address()

	_, err := f.ctrl.CreateTransaction(f.ctx, f.db, f.walletKey, outsider, 1, target, nil, nil)
	assert.True(t, ErrNotAnOwner.Is(err))

	_, err = f.ctrl.CreateTransaction(f.ctx, f.db, []byte("missing"), f.a, 1, target, nil, nil)
	assert.True(t, errors.ErrNotFound.Is(err))

	_, err = f.ctrl.CreateTransaction(f.ctx, f.db, f.walletKey, f.a, 1, target, nil,
		make([]byte, MaxInstructionDataSize+1))
	assert.True(t, ErrInstructionDataTooLarge.Is(err))

	// boundary payload is accepted
	_, err = f.ctrl.CreateTransaction(f.ctx, f.db, f.walletKey, f.a, 1, target, nil,
		make([]byte, MaxInstructionDataSize))
	assert.NoError(t, err)
}

func TestCreateTransactionNonceReuse(t *testing.T) {
	f := newControllerFixture(t, 1)
	target := locksteptest.NewCondition().Address()

	f.propose(t, 7)

	// same nonce rejected while pending
	_, err := f.ctrl.CreateTransaction(f.ctx, f.db, f.walletKey, f.b, 7, target, nil, nil)
	assert.True(t, ErrNonceAlreadyUsed.Is(err))

	// execute the proposal and retry, still rejected
	_, err = f.ctrl.ApproveTransaction(f.ctx, f.db, f.walletKey, 7, f.a)
	require.NoError(t, err)
	_, err = f.ctrl.ExecuteTransaction(f.ctx, f.db, f.walletKey, 7, nil)
	require.NoError(t, err)

	_, err = f.ctrl.CreateTransaction(f.ctx, f.db, f.walletKey, f.b, 7, target, nil, nil)
	assert.True(t, ErrNonceAlreadyUsed.Is(err))
}

func TestApproveTransaction(t *testing.T) {
	f := newControllerFixture(t, 2)
	f.propose(t, 7)
	outsider := locksteptest.NewCondition().Address()

	_, err := f.ctrl.ApproveTransaction(f.ctx, f.db, f.walletKey, 7, outsider)
	assert.True(t, ErrNotAnOwner.Is(err))

	count, err := f.ctrl.ApproveTransaction(f.ctx, f.db, f.walletKey, 7, f.a)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = f.ctrl.ApproveTransaction(f.ctx, f.db, f.walletKey, 7, f.a)
	assert.True(t, ErrAlreadyApproved.Is(err))

	count, err = f.ctrl.ApproveTransaction(f.ctx, f.db, f.walletKey, 7, f.b)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = f.ctrl.ApproveTransaction(f.ctx, f.db, f.walletKey, 7, f.c)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	_, err = f.ctrl.ApproveTransaction(f.ctx, f.db, f.walletKey, 8, f.a)
	assert.True(t, errors.ErrNotFound.Is(err))
}

// Three owners, threshold two: A approves, execute fails; B approves,
// execute succeeds; C can no longer approve.
func TestThresholdWalkthrough(t *testing.T) {
	f := newControllerFixture(t, 2)
	f.propose(t, 7)

	count, err := f.ctrl.ApproveTransaction(f.ctx, f.db, f.walletKey, 7, f.a)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = f.ctrl.ExecuteTransaction(f.ctx, f.db, f.walletKey, 7, nil)
	assert.True(t, ErrNotEnoughApprovals.Is(err))

	count, err = f.ctrl.ApproveTransaction(f.ctx, f.db, f.walletKey, 7, f.b)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	data, err := f.ctrl.ExecuteTransaction(f.ctx, f.db, f.walletKey, 7, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), data)

	loaded, err := f.ctrl.proposals.GetProposal(f.db, f.walletKey, 7)
	require.NoError(t, err)
	assert.True(t, loaded.Executed)

	_, err = f.ctrl.ApproveTransaction(f.ctx, f.db, f.walletKey, 7, f.c)
	assert.True(t, ErrAlreadyExecuted.Is(err))

	_, err = f.ctrl.ExecuteTransaction(f.ctx, f.db, f.walletKey, 7, nil)
	assert.True(t, ErrAlreadyExecuted.Is(err))
}

func TestExecuteForwardsInstruction(t *testing.T) {
	f := newControllerFixture(t, 1)
	target := locksteptest.NewCondition().Address()
	accounts := []AccountMeta{{Address: f.b, Writable: true}}
	aux := []lockstep.Address{locksteptest.NewCondition().Address()}

	_, err := f.ctrl.CreateTransaction(f.ctx, f.db, f.walletKey, f.a, 9, target, accounts, []byte("call"))
	require.NoError(t, err)
	_, err = f.ctrl.ApproveTransaction(f.ctx, f.db, f.walletKey, 9, f.a)
	require.NoError(t, err)
	_, err = f.ctrl.ExecuteTransaction(f.ctx, f.db, f.walletKey, 9, aux)
	require.NoError(t, err)

	require.Len(t, f.executor.calls, 1)
	in := f.executor.calls[0]
	assert.Equal(t, WalletCondition(f.walletKey).Address(), in.Wallet)
	assert.Equal(t, target, in.Target)
	assert.Equal(t, accounts, in.Accounts)
	assert.Equal(t, []byte("call"), in.Data)
	assert.Equal(t, aux, in.Auxiliary)
}

func TestExecuteFailurePropagated(t *testing.T) {
	f := newControllerFixture(t, 1)
	f.propose(t, 7)
	_, err := f.ctrl.ApproveTransaction(f.ctx, f.db, f.walletKey, 7, f.a)
	require.NoError(t, err)

	boom := errors.ErrState.New("downstream unavailable")
	f.executor.err = boom

	_, err = f.ctrl.ExecuteTransaction(f.ctx, f.db, f.walletKey, 7, nil)
	assert.Equal(t, boom, err)

	// the proposal stays pending and can be retried
	loaded, err := f.ctrl.proposals.GetProposal(f.db, f.walletKey, 7)
	require.NoError(t, err)
	assert.False(t, loaded.Executed)

	f.executor.err = nil
	_, err = f.ctrl.ExecuteTransaction(f.ctx, f.db, f.walletKey, 7, nil)
	assert.NoError(t, err)
}

// An approval recorded past the threshold does not block execution,
// and execution by a non owner is allowed.
func TestExecuteByNonOwner(t *testing.T) {
	f := newControllerFixture(t, 1)
	f.propose(t, 7)
	_, err := f.ctrl.ApproveTransaction(f.ctx, f.db, f.walletKey, 7, f.a)
	require.NoError(t, err)
	_, err = f.ctrl.ApproveTransaction(f.ctx, f.db, f.walletKey, 7, f.b)
	require.NoError(t, err)

	// the controller does not check executor identity at all
	_, err = f.ctrl.ExecuteTransaction(f.ctx, f.db, f.walletKey, 7, nil)
	assert.NoError(t, err)
}
