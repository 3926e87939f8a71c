package vault

import (
	"github.com/lockstep-io/lockstep"
	"go.uber.org/zap"
)

// Instruction is the downstream call handed to the Executor once a
// proposal is authorized. It is dispatched under the wallet's own
// authority.
type Instruction struct {
	// Wallet is the signing principal for the downstream action.
	Wallet lockstep.Address
	// Target is the program or action to invoke.
	Target   lockstep.Address
	Accounts []AccountMeta
	// Data is the opaque payload, forwarded verbatim.
	Data []byte
	// Auxiliary addresses are supplied by the execute caller and
	// forwarded verbatim.
	Auxiliary []lockstep.Address
}

// Executor performs the authorized downstream action. Deciding whether
// dispatch is allowed is this package's job; performing it is not.
//
// An error returned here is propagated to the caller unmodified and
// leaves the proposal unexecuted, so execution can be retried once the
// downstream failure is resolved.
type Executor interface {
	Execute(ctx lockstep.Context, in Instruction) ([]byte, error)
}

// ExecutorFunc turns a function into an Executor.
type ExecutorFunc func(ctx lockstep.Context, in Instruction) ([]byte, error)

func (f ExecutorFunc) Execute(ctx lockstep.Context, in Instruction) ([]byte, error) {
	return f(ctx, in)
}

// LogExecutor logs the instruction and reports success without
// performing any action. It backs the command line tool, where no
// downstream system is attached.
func LogExecutor() Executor {
	return ExecutorFunc(func(ctx lockstep.Context, in Instruction) ([]byte, error) {
		lockstep.GetLogger(ctx).Info("dispatching instruction",
			zap.String("wallet", in.Wallet.String()),
			zap.String("target", in.Target.String()),
			zap.Int("accounts", len(in.Accounts)),
			zap.Int("data_size", len(in.Data)),
			zap.Int("auxiliary", len(in.Auxiliary)),
		)
		return nil, nil
	})
}
