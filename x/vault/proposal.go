package vault

import (
	"encoding/binary"

	"github.com/lockstep-io/lockstep"
	"github.com/lockstep-io/lockstep/errors"
	"github.com/lockstep-io/lockstep/orm"
)

const (
	// MaxInstructionAccounts bounds the account list of an instruction.
	MaxInstructionAccounts = 10

	// MaxInstructionDataSize bounds the opaque instruction payload.
	MaxInstructionDataSize = 1024

	proposalBucketName = "proposals"
)

// AccountMeta describes one account of the downstream call.
type AccountMeta struct {
	Address  lockstep.Address
	Signer   bool
	Writable bool
}

// Validate ensures the address is well formed.
func (a AccountMeta) Validate() error {
	return errors.Wrap(a.Address.Validate(), "address")
}

// Proposal is a pending transaction on a wallet, addressed by
// (wallet, nonce). Approvals accumulate until the proposal is
// dispatched, at which point the record is frozen.
type Proposal struct {
	// Wallet is the key of the wallet record this proposal belongs to.
	Wallet   []byte
	Proposer lockstep.Address
	Nonce    int64
	// Target is the downstream program or action to invoke.
	Target   lockstep.Address
	Accounts []AccountMeta
	// Data is the opaque payload forwarded to the executor.
	Data []byte
	// Approvals are the owners that approved so far, in approval order.
	Approvals []lockstep.Address
	Executed  bool
}

var _ orm.Model = (*Proposal)(nil)

func (p *Proposal) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(p)
}

func (p *Proposal) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, p)
}

// Validate enforces the instruction shape bounds.
func (p *Proposal) Validate() error {
	if len(p.Wallet) == 0 {
		return errors.Wrap(errors.ErrEmpty, "wallet")
	}
	if err := p.Proposer.Validate(); err != nil {
		return errors.Wrap(err, "proposer")
	}
	if err := p.Target.Validate(); err != nil {
		return errors.Wrap(err, "target")
	}
	if len(p.Accounts) > MaxInstructionAccounts {
		return errors.Wrapf(ErrTooManyAccounts, "%d accounts", len(p.Accounts))
	}
	for i, a := range p.Accounts {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	if len(p.Data) > MaxInstructionDataSize {
		return errors.Wrapf(ErrInstructionDataTooLarge, "%d bytes", len(p.Data))
	}
	return nil
}

// HasApproved returns true if the owner already approved this
// proposal.
func (p *Proposal) HasApproved(addr lockstep.Address) bool {
	for _, a := range p.Approvals {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

// Approve records an approval. It fails if the proposal was already
// executed or the owner already approved.
func (p *Proposal) Approve(addr lockstep.Address) error {
	if p.Executed {
		return errors.Wrap(ErrAlreadyExecuted, "approve")
	}
	if p.HasApproved(addr) {
		return errors.Wrapf(ErrAlreadyApproved, "owner %s", addr)
	}
	p.Approvals = append(p.Approvals, addr)
	return nil
}

// Approved is the derived readiness predicate. It is never stored:
// approvals can accumulate past the threshold before anyone triggers
// dispatch.
func (p *Proposal) Approved(threshold int32) bool {
	return int32(len(p.Approvals)) >= threshold
}

// ProposalKey is the primary key of a proposal record.
func ProposalKey(walletKey []byte, nonce int64) []byte {
	key := make([]byte, len(walletKey)+8)
	copy(key, walletKey)
	binary.BigEndian.PutUint64(key[len(walletKey):], uint64(nonce))
	return key
}

// ProposalBucket is a type-safe wrapper around orm.Bucket.
type ProposalBucket struct {
	orm.Bucket
}

// NewProposalBucket initializes a ProposalBucket with default name.
func NewProposalBucket() ProposalBucket {
	return ProposalBucket{
		Bucket: orm.NewBucket(proposalBucketName, orm.NewSimpleObj(nil, new(Proposal))),
	}
}

// GetProposal returns the proposal for (wallet, nonce), or
// ErrNotFound.
func (b ProposalBucket) GetProposal(db lockstep.ReadOnlyKVStore, walletKey []byte, nonce int64) (*Proposal, error) {
	obj, err := b.Get(db, ProposalKey(walletKey, nonce))
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "proposal %X/%d", walletKey, nonce)
	}
	p, ok := obj.Value().(*Proposal)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return p, nil
}

// Save persists the proposal under its (wallet, nonce) key.
func (b ProposalBucket) Save(db lockstep.KVStore, p *Proposal) error {
	obj := orm.NewSimpleObj(ProposalKey(p.Wallet, p.Nonce), p)
	return b.Bucket.Save(db, obj)
}
