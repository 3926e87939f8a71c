package locksteptest

import "github.com/lockstep-io/lockstep"

// Handler is a mock implementing lockstep.Handler interface.
type Handler struct {
	checkCall   int
	CheckResult lockstep.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult lockstep.DeliverResult
	DeliverErr    error
}

var _ lockstep.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx lockstep.Context, db lockstep.KVStore, tx lockstep.Tx) (lockstep.CheckResult, error) {
	h.checkCall++
	return h.CheckResult, h.CheckErr
}

func (h *Handler) Deliver(ctx lockstep.Context, db lockstep.KVStore, tx lockstep.Tx) (lockstep.DeliverResult, error) {
	h.deliverCall++
	return h.DeliverResult, h.DeliverErr
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
