package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockstep-io/lockstep"
	"github.com/lockstep-io/lockstep/errors"
	"github.com/lockstep-io/lockstep/locksteptest"
	"github.com/lockstep-io/lockstep/store"
)

func TestWalletValidate(t *testing.T) {
	a := locksteptest.NewCondition().Address()
	b := locksteptest.NewCondition().Address()
	c := locksteptest.NewCondition().Address()

	manyOwners := make([]lockstep.Address, MaxOwners+1)
	for i := range manyOwners {
		manyOwners[i] = locksteptest.NewCondition().Address()
	}

	cases := map[string]struct {
		wallet  Wallet
		wantErr *errors.Error
	}{
		"valid": {
			wallet: Wallet{ID: []byte("main"), Creator: a, Owners: []lockstep.Address{a, b, c}, Threshold: 2},
		},
		"single owner": {
			wallet: Wallet{ID: []byte("solo"), Creator: a, Owners: []lockstep.Address{a}, Threshold: 1},
		},
		"no owners": {
			wallet:  Wallet{ID: []byte("main"), Creator: a, Threshold: 1},
			wantErr: ErrNoOwners,
		},
		"duplicate owners": {
			wallet:  Wallet{ID: []byte("main"), Creator: a, Owners: []lockstep.Address{a, a, b}, Threshold: 1},
			wantErr: ErrDuplicateOwners,
		},
		"zero threshold": {
			wallet:  Wallet{ID: []byte("main"), Creator: a, Owners: []lockstep.Address{a, b}, Threshold: 0},
			wantErr: ErrInvalidThreshold,
		},
		"threshold above owner count": {
			wallet:  Wallet{ID: []byte("main"), Creator: a, Owners: []lockstep.Address{a, b}, Threshold: 3},
			wantErr: ErrInvalidThreshold,
		},
		"too many owners": {
			wallet:  Wallet{ID: []byte("main"), Creator: a, Owners: manyOwners, Threshold: 1},
			wantErr: errors.ErrInput,
		},
		"missing id": {
			wallet:  Wallet{Creator: a, Owners: []lockstep.Address{a}, Threshold: 1},
			wantErr: errors.ErrEmpty,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.wallet.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
			}
		})
	}
}

func TestWalletIsOwner(t *testing.T) {
	a := locksteptest.NewCondition().Address()
	b := locksteptest.NewCondition().Address()
	outsider := locksteptest.NewCondition().Address()

	w := Wallet{ID: []byte("main"), Creator: a, Owners: []lockstep.Address{a, b}, Threshold: 1}
	assert.True(t, w.IsOwner(a))
	assert.True(t, w.IsOwner(b))
	assert.False(t, w.IsOwner(outsider))
}

func TestWalletBucketRoundTrip(t *testing.T) {
	db := store.MemStore()
	bucket := NewWalletBucket()

	a := locksteptest.NewCondition().Address()
	b := locksteptest.NewCondition().Address()
	wallet := &Wallet{
		ID:        []byte("treasury"),
		Creator:   a,
		Owners:    []lockstep.Address{a, b},
		Threshold: 2,
	}
	require.NoError(t, wallet.Nonces.Reserve(42))
	require.NoError(t, bucket.Save(db, wallet))

	loaded, err := bucket.GetWallet(db, WalletKey(a, []byte("treasury")))
	require.NoError(t, err)
	assert.Equal(t, wallet.Owners, loaded.Owners)
	assert.Equal(t, int32(2), loaded.Threshold)
	// the nonce history survives the round trip, including membership
	assert.True(t, loaded.Nonces.Contains(42))
	assert.False(t, loaded.Nonces.Contains(43))

	_, err = bucket.GetWallet(db, WalletKey(b, []byte("treasury")))
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestWalletKeyDistinguishesCreators(t *testing.T) {
	a := locksteptest.NewCondition().Address()
	b := locksteptest.NewCondition().Address()

	assert.NotEqual(t, WalletKey(a, []byte("x")), WalletKey(b, []byte("x")))
	assert.NotEqual(t, WalletKey(a, []byte("x")), WalletKey(a, []byte("y")))
	assert.Equal(t, WalletKey(a, []byte("x")), WalletKey(a, []byte("x")))
}

func TestWalletCondition(t *testing.T) {
	key := WalletKey(locksteptest.NewCondition().Address(), []byte("main"))
	cond := WalletCondition(key)
	require.NoError(t, cond.Validate())
	require.NoError(t, cond.Address().Validate())
}
