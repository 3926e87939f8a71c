package vault

import (
	"github.com/lockstep-io/lockstep"
	"github.com/lockstep-io/lockstep/errors"
)

const (
	pathCreateWalletMsg       = "vault/create_wallet"
	pathCreateTransactionMsg  = "vault/create_transaction"
	pathApproveTransactionMsg = "vault/approve_transaction"
	pathExecuteTransactionMsg = "vault/execute_transaction"
)

// CreateWalletMsg creates a new wallet owned by the main signer. The
// owner set and threshold are fixed for the wallet's lifetime.
type CreateWalletMsg struct {
	ID        []byte
	Owners    []lockstep.Address
	Threshold int32
}

var _ lockstep.Msg = (*CreateWalletMsg)(nil)

// Path fulfills lockstep.Msg interface to allow routing.
func (CreateWalletMsg) Path() string {
	return pathCreateWalletMsg
}

// Validate enforces owner set and threshold boundaries.
func (m *CreateWalletMsg) Validate() error {
	switch n := len(m.ID); {
	case n == 0:
		return errors.Wrap(errors.ErrEmpty, "id")
	case n > maxWalletIDSize:
		return errors.Wrapf(errors.ErrMsg, "id longer than %d bytes", maxWalletIDSize)
	}
	return validateOwners(m.Owners, m.Threshold)
}

func (m *CreateWalletMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *CreateWalletMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// CreateTransactionMsg proposes a transaction on a wallet. The main
// signer must be one of the wallet's owners, and the nonce must not be
// in the wallet's retained history.
type CreateTransactionMsg struct {
	// Wallet is the wallet record key returned at creation.
	Wallet []byte
	Nonce  int64
	// Target is the downstream program or action to invoke.
	Target   lockstep.Address
	Accounts []AccountMeta
	Data     []byte
}

var _ lockstep.Msg = (*CreateTransactionMsg)(nil)

// Path fulfills lockstep.Msg interface to allow routing.
func (CreateTransactionMsg) Path() string {
	return pathCreateTransactionMsg
}

// Validate enforces the instruction shape boundaries.
func (m *CreateTransactionMsg) Validate() error {
	if len(m.Wallet) == 0 {
		return errors.Wrap(errors.ErrEmpty, "wallet")
	}
	if err := m.Target.Validate(); err != nil {
		return errors.Wrap(err, "target")
	}
	if len(m.Accounts) > MaxInstructionAccounts {
		return errors.Wrapf(ErrTooManyAccounts, "%d accounts", len(m.Accounts))
	}
	for i, a := range m.Accounts {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	if len(m.Data) > MaxInstructionDataSize {
		return errors.Wrapf(ErrInstructionDataTooLarge, "%d bytes", len(m.Data))
	}
	return nil
}

func (m *CreateTransactionMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *CreateTransactionMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// ApproveTransactionMsg records the main signer's approval on a
// pending proposal.
type ApproveTransactionMsg struct {
	Wallet []byte
	Nonce  int64
}

var _ lockstep.Msg = (*ApproveTransactionMsg)(nil)

// Path fulfills lockstep.Msg interface to allow routing.
func (ApproveTransactionMsg) Path() string {
	return pathApproveTransactionMsg
}

func (m *ApproveTransactionMsg) Validate() error {
	if len(m.Wallet) == 0 {
		return errors.Wrap(errors.ErrEmpty, "wallet")
	}
	return nil
}

func (m *ApproveTransactionMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ApproveTransactionMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// ExecuteTransactionMsg triggers dispatch of a proposal that reached
// its wallet's threshold. The signer does not have to be an owner:
// authorization comes from the accumulated approvals.
type ExecuteTransactionMsg struct {
	Wallet []byte
	Nonce  int64
	// Auxiliary addresses are forwarded verbatim to the executor.
	Auxiliary []lockstep.Address
}

var _ lockstep.Msg = (*ExecuteTransactionMsg)(nil)

// Path fulfills lockstep.Msg interface to allow routing.
func (ExecuteTransactionMsg) Path() string {
	return pathExecuteTransactionMsg
}

func (m *ExecuteTransactionMsg) Validate() error {
	if len(m.Wallet) == 0 {
		return errors.Wrap(errors.ErrEmpty, "wallet")
	}
	for i, a := range m.Auxiliary {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "auxiliary %d", i)
		}
	}
	return nil
}

func (m *ExecuteTransactionMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ExecuteTransactionMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}
