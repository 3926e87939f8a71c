package vault

import (
	"fmt"
	"strconv"

	"github.com/lockstep-io/lockstep"
	"github.com/lockstep-io/lockstep/errors"
	"github.com/lockstep-io/lockstep/x"
)

const (
	createWalletCost int64 = 300
	proposeCost      int64 = 150
	approveCost      int64 = 50
	executeCost      int64 = 100
)

const (
	tagAction    = "action"
	tagWallet    = "wallet"
	tagProposal  = "proposal"
	tagProposer  = "proposer"
	tagApprover  = "approver"
	tagExecutor  = "executor"
	tagNonce     = "nonce"
	tagApprovals = "approvals"
	tagThreshold = "threshold"
)

// hexKey renders a record key for use as a tag value.
func hexKey(key []byte) string {
	return fmt.Sprintf("%X", key)
}

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r lockstep.Registry, auth x.Authenticator, executor Executor) {
	ctrl := NewController(executor)
	r.Handle(pathCreateWalletMsg, CreateWalletHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathCreateTransactionMsg, CreateTransactionHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathApproveTransactionMsg, ApproveTransactionHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathExecuteTransactionMsg, ExecuteTransactionHandler{auth: auth, ctrl: ctrl})
}

// CreateWalletHandler creates a wallet owned by the main signer.
type CreateWalletHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ lockstep.Handler = CreateWalletHandler{}

func (h CreateWalletHandler) Check(ctx lockstep.Context, db lockstep.KVStore, tx lockstep.Tx) (lockstep.CheckResult, error) {
	var res lockstep.CheckResult
	if _, _, err := h.validate(ctx, tx); err != nil {
		return res, err
	}
	res.GasAllocated = createWalletCost
	return res, nil
}

func (h CreateWalletHandler) Deliver(ctx lockstep.Context, db lockstep.KVStore, tx lockstep.Tx) (lockstep.DeliverResult, error) {
	var res lockstep.DeliverResult
	msg, creator, err := h.validate(ctx, tx)
	if err != nil {
		return res, err
	}

	key, err := h.ctrl.CreateWallet(ctx, db, creator, msg.ID, msg.Owners, msg.Threshold)
	if err != nil {
		return res, err
	}

	res.Data = key
	return res, nil
}

func (h CreateWalletHandler) validate(ctx lockstep.Context, tx lockstep.Tx) (*CreateWalletMsg, lockstep.Address, error) {
	var msg CreateWalletMsg
	if err := lockstep.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	creator := x.MainSigner(ctx, h.auth)
	if creator == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &msg, creator.Address(), nil
}

// CreateTransactionHandler proposes a transaction on behalf of the
// main signer.
type CreateTransactionHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ lockstep.Handler = CreateTransactionHandler{}

func (h CreateTransactionHandler) Check(ctx lockstep.Context, db lockstep.KVStore, tx lockstep.Tx) (lockstep.CheckResult, error) {
	var res lockstep.CheckResult
	if _, _, err := h.validate(ctx, tx); err != nil {
		return res, err
	}
	res.GasAllocated = proposeCost
	return res, nil
}

func (h CreateTransactionHandler) Deliver(ctx lockstep.Context, db lockstep.KVStore, tx lockstep.Tx) (lockstep.DeliverResult, error) {
	var res lockstep.DeliverResult
	msg, proposer, err := h.validate(ctx, tx)
	if err != nil {
		return res, err
	}

	proposal, err := h.ctrl.CreateTransaction(ctx, db, msg.Wallet, proposer, msg.Nonce, msg.Target, msg.Accounts, msg.Data)
	if err != nil {
		return res, err
	}

	res.Data = ProposalKey(proposal.Wallet, proposal.Nonce)
	res.Tags = []lockstep.KVPair{
		lockstep.Pair(tagAction, "transaction_created"),
		lockstep.Pair(tagWallet, hexKey(msg.Wallet)),
		lockstep.Pair(tagProposal, hexKey(res.Data)),
		lockstep.Pair(tagProposer, proposer.String()),
		lockstep.PairInt(tagNonce, msg.Nonce),
	}
	return res, nil
}

func (h CreateTransactionHandler) validate(ctx lockstep.Context, tx lockstep.Tx) (*CreateTransactionMsg, lockstep.Address, error) {
	var msg CreateTransactionMsg
	if err := lockstep.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	proposer := x.MainSigner(ctx, h.auth)
	if proposer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &msg, proposer.Address(), nil
}

// ApproveTransactionHandler records the main signer's approval.
type ApproveTransactionHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ lockstep.Handler = ApproveTransactionHandler{}

func (h ApproveTransactionHandler) Check(ctx lockstep.Context, db lockstep.KVStore, tx lockstep.Tx) (lockstep.CheckResult, error) {
	var res lockstep.CheckResult
	if _, _, err := h.validate(ctx, tx); err != nil {
		return res, err
	}
	res.GasAllocated = approveCost
	return res, nil
}

func (h ApproveTransactionHandler) Deliver(ctx lockstep.Context, db lockstep.KVStore, tx lockstep.Tx) (lockstep.DeliverResult, error) {
	var res lockstep.DeliverResult
	msg, approver, err := h.validate(ctx, tx)
	if err != nil {
		return res, err
	}

	count, err := h.ctrl.ApproveTransaction(ctx, db, msg.Wallet, msg.Nonce, approver)
	if err != nil {
		return res, err
	}

	wallet, err := h.ctrl.wallets.GetWallet(db, msg.Wallet)
	if err != nil {
		return res, err
	}

	res.Data = strconv.AppendInt(nil, int64(count), 10)
	res.Tags = []lockstep.KVPair{
		lockstep.Pair(tagAction, "transaction_approved"),
		lockstep.Pair(tagProposal, hexKey(ProposalKey(msg.Wallet, msg.Nonce))),
		lockstep.Pair(tagApprover, approver.String()),
		lockstep.PairInt(tagApprovals, int64(count)),
		lockstep.PairInt(tagThreshold, int64(wallet.Threshold)),
	}
	return res, nil
}

func (h ApproveTransactionHandler) validate(ctx lockstep.Context, tx lockstep.Tx) (*ApproveTransactionMsg, lockstep.Address, error) {
	var msg ApproveTransactionMsg
	if err := lockstep.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	approver := x.MainSigner(ctx, h.auth)
	if approver == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &msg, approver.Address(), nil
}

// ExecuteTransactionHandler triggers dispatch of an approved proposal.
// Authorization comes from the accumulated approvals, not from the
// signer's identity, so any authenticated caller may trigger it.
type ExecuteTransactionHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ lockstep.Handler = ExecuteTransactionHandler{}

func (h ExecuteTransactionHandler) Check(ctx lockstep.Context, db lockstep.KVStore, tx lockstep.Tx) (lockstep.CheckResult, error) {
	var res lockstep.CheckResult
	if _, _, err := h.validate(ctx, tx); err != nil {
		return res, err
	}
	res.GasAllocated = executeCost
	return res, nil
}

func (h ExecuteTransactionHandler) Deliver(ctx lockstep.Context, db lockstep.KVStore, tx lockstep.Tx) (lockstep.DeliverResult, error) {
	var res lockstep.DeliverResult
	msg, executor, err := h.validate(ctx, tx)
	if err != nil {
		return res, err
	}

	data, err := h.ctrl.ExecuteTransaction(ctx, db, msg.Wallet, msg.Nonce, msg.Auxiliary)
	if err != nil {
		return res, err
	}

	res.Data = data
	res.Tags = []lockstep.KVPair{
		lockstep.Pair(tagAction, "transaction_executed"),
		lockstep.Pair(tagProposal, hexKey(ProposalKey(msg.Wallet, msg.Nonce))),
		lockstep.Pair(tagExecutor, executor.String()),
	}
	return res, nil
}

func (h ExecuteTransactionHandler) validate(ctx lockstep.Context, tx lockstep.Tx) (*ExecuteTransactionMsg, lockstep.Address, error) {
	var msg ExecuteTransactionMsg
	if err := lockstep.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	executor := x.MainSigner(ctx, h.auth)
	if executor == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &msg, executor.Address(), nil
}
