package coordinator

import "github.com/appetiteclub/comandas/internal/kitchen"

// Fan-out step names.
const (
	StepDeliveryUpsert   = "delivery.upsert"
	StepTableOccupy      = "table.occupy"
	StepTableAppend      = "table.append"
	StepNotificationEmit = "notification.emit"
	StepOrderRemove      = "order.remove"
)

// FanOutResult records one derived write. A failed step never fails the
// operation that triggered it.
type FanOutResult struct {
	Step    string
	Skipped bool
	Err     error
	Detail  string
}

func (r FanOutResult) Failed() bool {
	return r.Err != nil
}

// Result is the authoritative kitchen order plus the outcome of every
// derived write.
type Result struct {
	Order  *kitchen.Order
	FanOut []FanOutResult
}

// Synchronized reports whether every attempted fan-out step succeeded.
func (r *Result) Synchronized() bool {
	for _, step := range r.FanOut {
		if step.Failed() {
			return false
		}
	}
	return true
}

// Step returns the result for name, if that step ran.
func (r *Result) Step(name string) (FanOutResult, bool) {
	for _, step := range r.FanOut {
		if step.Step == name {
			return step, true
		}
	}
	return FanOutResult{}, false
}

// Failures lists the failed steps.
func (r *Result) Failures() []FanOutResult {
	var failed []FanOutResult
	for _, step := range r.FanOut {
		if step.Failed() {
			failed = append(failed, step)
		}
	}
	return failed
}
