package vault

import (
	"github.com/lockstep-io/lockstep"
	"github.com/lockstep-io/lockstep/errors"
	"github.com/lockstep-io/lockstep/orm"
)

const (
	// MaxOwners is the upper bound on a wallet's owner set.
	MaxOwners = 10

	// maxWalletIDSize bounds the caller supplied wallet identifier.
	maxWalletIDSize = 32

	walletBucketName = "wallets"
)

// Wallet is the authorization record: who may approve, and how many
// approvals dispatch a proposal. It is immutable after creation except
// for the nonce history.
type Wallet struct {
	// ID distinguishes wallets created by the same creator. Uniqueness
	// holds per (Creator, ID) pair.
	ID      []byte
	Creator lockstep.Address
	Owners  []lockstep.Address
	// Threshold is the number of distinct owner approvals required
	// before a proposal may be dispatched.
	Threshold int32
	// Nonces is the retained history of consumed proposal nonces.
	Nonces NonceRing
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(w)
}

func (w *Wallet) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, w)
}

// Validate enforces the owner set and threshold invariants.
func (w *Wallet) Validate() error {
	switch n := len(w.ID); {
	case n == 0:
		return errors.Wrap(errors.ErrEmpty, "id")
	case n > maxWalletIDSize:
		return errors.Wrapf(errors.ErrInput, "id longer than %d bytes", maxWalletIDSize)
	}
	if err := w.Creator.Validate(); err != nil {
		return errors.Wrap(err, "creator")
	}
	if err := validateOwners(w.Owners, w.Threshold); err != nil {
		return err
	}
	if len(w.Nonces.Nonces) > MaxStoredNonces {
		return errors.Wrap(errors.ErrModel, "nonce history over capacity")
	}
	return nil
}

// IsOwner returns true if the address is in the owner set. Owner sets
// are small, a linear scan is fine.
func (w *Wallet) IsOwner(addr lockstep.Address) bool {
	for _, o := range w.Owners {
		if o.Equals(addr) {
			return true
		}
	}
	return false
}

// validateOwners is shared between the model and the message, so the
// same owner set is rejected the same way at both layers.
func validateOwners(owners []lockstep.Address, threshold int32) error {
	switch n := len(owners); {
	case n == 0:
		return errors.Wrap(ErrNoOwners, "owners")
	case n > MaxOwners:
		return errors.Wrapf(errors.ErrInput, "more than %d owners", MaxOwners)
	}
	for i, o := range owners {
		if err := o.Validate(); err != nil {
			return errors.Wrapf(err, "owner %d", i)
		}
		for _, prev := range owners[:i] {
			if prev.Equals(o) {
				return errors.Wrapf(ErrDuplicateOwners, "owner %s", o)
			}
		}
	}
	if threshold < 1 || int(threshold) > len(owners) {
		return errors.Wrapf(ErrInvalidThreshold, "threshold %d with %d owners", threshold, len(owners))
	}
	return nil
}

// WalletKey is the primary key of a wallet record.
func WalletKey(creator lockstep.Address, id []byte) []byte {
	key := make([]byte, 0, len(creator)+1+len(id))
	key = append(key, creator...)
	key = append(key, '/')
	return append(key, id...)
}

// WalletCondition is the condition under whose authority dispatched
// instructions run. The wallet, not any single owner, is the signing
// principal downstream.
func WalletCondition(walletKey []byte) lockstep.Condition {
	return lockstep.NewCondition("vault", "wallet", walletKey)
}

// WalletBucket is a type-safe wrapper around orm.Bucket.
type WalletBucket struct {
	orm.Bucket
}

// NewWalletBucket initializes a WalletBucket with default name.
func NewWalletBucket() WalletBucket {
	return WalletBucket{
		Bucket: orm.NewBucket(walletBucketName, orm.NewSimpleObj(nil, new(Wallet))),
	}
}

// GetWallet returns the wallet with the given key, or ErrNotFound.
func (b WalletBucket) GetWallet(db lockstep.ReadOnlyKVStore, key []byte) (*Wallet, error) {
	obj, err := b.Get(db, key)
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "wallet %X", key)
	}
	w, ok := obj.Value().(*Wallet)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return w, nil
}

// Save persists the wallet under its (creator, id) key.
func (b WalletBucket) Save(db lockstep.KVStore, w *Wallet) error {
	obj := orm.NewSimpleObj(WalletKey(w.Creator, w.ID), w)
	return b.Bucket.Save(db, obj)
}
