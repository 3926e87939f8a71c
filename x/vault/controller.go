package vault

import (
	"github.com/lockstep-io/lockstep"
	"github.com/lockstep-io/lockstep/errors"
	"go.uber.org/zap"
)

// Controller drives the proposal lifecycle over the wallet and
// proposal buckets. Handlers and the command line tool share it so the
// state machine exists exactly once.
//
// Every method is a single bounded state transition. Callers are
// responsible for running it against an isolated store (see app's
// cache wrap) so a failed transition leaves no partial mutation.
type Controller struct {
	wallets   WalletBucket
	proposals ProposalBucket
	executor  Executor
}

// NewController returns a controller dispatching through the given
// executor.
func NewController(executor Executor) Controller {
	return Controller{
		wallets:   NewWalletBucket(),
		proposals: NewProposalBucket(),
		executor:  executor,
	}
}

// CreateWallet persists a new wallet and returns its record key. No
// wallet may share the same (creator, id) pair.
func (c Controller) CreateWallet(ctx lockstep.Context, db lockstep.KVStore, creator lockstep.Address, id []byte, owners []lockstep.Address, threshold int32) ([]byte, error) {
	wallet := &Wallet{
		ID:        id,
		Creator:   creator,
		Owners:    owners,
		Threshold: threshold,
	}
	if err := wallet.Validate(); err != nil {
		return nil, err
	}

	key := WalletKey(creator, id)
	switch has, err := c.wallets.Has(db, key); {
	case err != nil:
		return nil, errors.Wrap(err, "bucket lookup")
	case has:
		return nil, errors.Wrapf(errors.ErrDuplicate, "wallet %X", key)
	}

	if err := c.wallets.Save(db, wallet); err != nil {
		return nil, err
	}
	lockstep.GetLogger(ctx).Info("wallet created",
		zap.String("creator", creator.String()),
		zap.Int("owners", len(owners)),
		zap.Int32("threshold", threshold),
	)
	return key, nil
}

// CreateTransaction reserves the nonce and persists a new proposal
// with no approvals. The proposer must be an owner of the wallet.
func (c Controller) CreateTransaction(ctx lockstep.Context, db lockstep.KVStore, walletKey []byte, proposer lockstep.Address, nonce int64, target lockstep.Address, accounts []AccountMeta, data []byte) (*Proposal, error) {
	wallet, err := c.wallets.GetWallet(db, walletKey)
	if err != nil {
		return nil, err
	}
	if !wallet.IsOwner(proposer) {
		return nil, errors.Wrapf(ErrNotAnOwner, "proposer %s", proposer)
	}

	proposal := &Proposal{
		Wallet:   walletKey,
		Proposer: proposer,
		Nonce:    nonce,
		Target:   target,
		Accounts: accounts,
		Data:     data,
	}
	if err := proposal.Validate(); err != nil {
		return nil, err
	}

	// The nonce is reserved now, not at execution time, so two
	// proposals can never race on the same nonce. An abandoned proposal
	// keeps its nonce spent until the history evicts it.
	if err := wallet.Nonces.Reserve(nonce); err != nil {
		return nil, err
	}
	if err := c.wallets.Save(db, wallet); err != nil {
		return nil, err
	}
	if err := c.proposals.Save(db, proposal); err != nil {
		return nil, err
	}
	lockstep.GetLogger(ctx).Info("transaction created",
		zap.String("proposer", proposer.String()),
		zap.Int64("nonce", nonce),
	)
	return proposal, nil
}

// ApproveTransaction adds the approver to the proposal's approval set
// and returns the new approval count. Crossing the threshold is
// observable only through the count, it does not dispatch anything.
func (c Controller) ApproveTransaction(ctx lockstep.Context, db lockstep.KVStore, walletKey []byte, nonce int64, approver lockstep.Address) (int, error) {
	wallet, err := c.wallets.GetWallet(db, walletKey)
	if err != nil {
		return 0, err
	}
	if !wallet.IsOwner(approver) {
		return 0, errors.Wrapf(ErrNotAnOwner, "approver %s", approver)
	}
	proposal, err := c.proposals.GetProposal(db, walletKey, nonce)
	if err != nil {
		return 0, err
	}
	if err := proposal.Approve(approver); err != nil {
		return 0, err
	}
	if err := c.proposals.Save(db, proposal); err != nil {
		return 0, err
	}
	lockstep.GetLogger(ctx).Debug("transaction approved",
		zap.String("approver", approver.String()),
		zap.Int64("nonce", nonce),
		zap.Int("approvals", len(proposal.Approvals)),
		zap.Int32("threshold", wallet.Threshold),
	)
	return len(proposal.Approvals), nil
}

// ExecuteTransaction dispatches a proposal that reached its wallet's
// threshold and marks it executed. An executor failure is returned
// unmodified and leaves the proposal pending, so execution can be
// retried.
func (c Controller) ExecuteTransaction(ctx lockstep.Context, db lockstep.KVStore, walletKey []byte, nonce int64, auxiliary []lockstep.Address) ([]byte, error) {
	wallet, err := c.wallets.GetWallet(db, walletKey)
	if err != nil {
		return nil, err
	}
	proposal, err := c.proposals.GetProposal(db, walletKey, nonce)
	if err != nil {
		return nil, err
	}
	if proposal.Executed {
		return nil, errors.Wrap(ErrAlreadyExecuted, "execute")
	}
	if !proposal.Approved(wallet.Threshold) {
		return nil, errors.Wrapf(ErrNotEnoughApprovals, "%d of %d", len(proposal.Approvals), wallet.Threshold)
	}

	in := Instruction{
		Wallet:    WalletCondition(walletKey).Address(),
		Target:    proposal.Target,
		Accounts:  proposal.Accounts,
		Data:      proposal.Data,
		Auxiliary: auxiliary,
	}
	data, err := c.executor.Execute(ctx, in)
	if err != nil {
		return nil, err
	}

	proposal.Executed = true
	if err := c.proposals.Save(db, proposal); err != nil {
		return nil, err
	}
	lockstep.GetLogger(ctx).Info("transaction executed",
		zap.Int64("nonce", nonce),
		zap.Int("approvals", len(proposal.Approvals)),
	)
	return data, nil
}
