package vault

import (
	"github.com/lockstep-io/lockstep/errors"
)

// Error codes
// vault takes 1100-1109
var (
	// ErrInvalidThreshold is returned when a wallet threshold is zero or
	// exceeds the owner count.
	ErrInvalidThreshold = errors.Register(1100, "invalid threshold")

	// ErrDuplicateOwners is returned when the owner list contains a
	// repeated identity.
	ErrDuplicateOwners = errors.Register(1101, "duplicate owners")

	// ErrNoOwners is returned when the owner list is empty.
	ErrNoOwners = errors.Register(1102, "no owners")

	// ErrNotAnOwner is returned when the caller of a propose or approve
	// operation is not in the wallet's owner set.
	ErrNotAnOwner = errors.Register(1103, "not an owner")

	// ErrAlreadyApproved is returned when the same owner approves the
	// same proposal twice.
	ErrAlreadyApproved = errors.Register(1104, "already approved")

	// ErrNonceAlreadyUsed is returned when the nonce is still present in
	// the wallet's retained history.
	ErrNonceAlreadyUsed = errors.Register(1105, "nonce already used")

	// ErrAlreadyExecuted is returned when approve or execute is called
	// on a proposal that was already executed.
	ErrAlreadyExecuted = errors.Register(1106, "already executed")

	// ErrNotEnoughApprovals is returned when execute is called before
	// the threshold is reached.
	ErrNotEnoughApprovals = errors.Register(1107, "not enough approvals")

	// ErrTooManyAccounts is returned when the instruction account list
	// exceeds MaxInstructionAccounts.
	ErrTooManyAccounts = errors.Register(1108, "too many accounts")

	// ErrInstructionDataTooLarge is returned when the instruction
	// payload exceeds MaxInstructionDataSize.
	ErrInstructionDataTooLarge = errors.Register(1109, "instruction data too large")
)
