package executors

import (
	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
)

// PredicateExecutor filters each input batch row-wise. The batch
// boundaries of the child stream survive unchanged, empty results
// included.
type PredicateExecutor struct {
	plan  *plans.PredicatePlanNode
	child Executor
}

func NewPredicateExecutor(plan *plans.PredicatePlanNode, child Executor) *PredicateExecutor {
	return &PredicateExecutor{plan: plan, child: child}
}

func (e *PredicateExecutor) Init() error {
	return e.child.Init()
}

func (e *PredicateExecutor) Next() (*batch.Batch, Done, error) {
	b, done, err := e.child.Next()
	if err != nil || done {
		return nil, done, err
	}
	out, err := filterBatch(b, e.plan.Predicate)
	if err != nil {
		return nil, false, err
	}
	return out, false, nil
}
