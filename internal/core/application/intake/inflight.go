package intake

import (
	"fmt"
	"sync"
)

// Logical operations guarded against duplicate submission.
const (
	opSelectClient   = "select_client"
	opCreateClient   = "create_client"
	opSelectBranch   = "select_branch"
	opCalculatePrice = "calculate_price"
	opCompleteStage  = "complete_stage"
	opSubmit         = "submit"
)

type inFlight struct {
	mu  sync.Mutex
	ops map[string]struct{}
}

// begin marks op as outstanding. The returned func clears the mark.
func (f *inFlight) begin(op string) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ops == nil {
		f.ops = make(map[string]struct{})
	}
	if _, busy := f.ops[op]; busy {
		return nil, fmt.Errorf("%w: %s", ErrOperationInFlight, op)
	}
	f.ops[op] = struct{}{}

	return func() {
		f.mu.Lock()
		delete(f.ops, op)
		f.mu.Unlock()
	}, nil
}

func (f *inFlight) busy(op string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.ops[op]
	return ok
}
