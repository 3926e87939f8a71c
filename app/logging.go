package app

import (
	"time"

	"github.com/lockstep-io/lockstep"
	"go.uber.org/zap"
)

// Logging is a decorator to log requests as they pass through, with
// the duration and the outcome.
type Logging struct{}

var _ lockstep.Decorator = Logging{}

// NewLogging creates a Logging decorator.
func NewLogging() Logging {
	return Logging{}
}

// Check logs error or result from the rest of the stack.
func (l Logging) Check(ctx lockstep.Context, store lockstep.KVStore, tx lockstep.Tx, next lockstep.Checker) (lockstep.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	logCall(ctx, "check", lockstep.GetPath(tx), start, err)
	return res, err
}

// Deliver logs error or result from the rest of the stack.
func (l Logging) Deliver(ctx lockstep.Context, store lockstep.KVStore, tx lockstep.Tx, next lockstep.Deliverer) (lockstep.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	logCall(ctx, "deliver", lockstep.GetPath(tx), start, err)
	return res, err
}

func logCall(ctx lockstep.Context, call, path string, start time.Time, err error) {
	logger := lockstep.GetLogger(ctx).With(
		zap.String("call", call),
		zap.String("path", path),
		zap.Duration("duration", time.Since(start)),
	)
	if err != nil {
		logger.Info("operation rejected", zap.Error(err))
	} else {
		logger.Debug("operation applied")
	}
}
