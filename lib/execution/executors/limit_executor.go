package executors

import (
	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
)

// LimitExecutor streams: rows before the offset are dropped, rows up to
// the limit pass through, and the stream ends as soon as the limit is
// hit without draining the child.
type LimitExecutor struct {
	plan    *plans.LimitPlanNode
	child   Executor
	skipped uint64
	emitted uint64
}

func NewLimitExecutor(plan *plans.LimitPlanNode, child Executor) *LimitExecutor {
	return &LimitExecutor{plan: plan, child: child}
}

func (e *LimitExecutor) Init() error {
	return e.child.Init()
}

func (e *LimitExecutor) Next() (*batch.Batch, Done, error) {
	if e.emitted >= e.plan.Limit {
		return nil, true, nil
	}
	b, done, err := e.child.Next()
	if err != nil || done {
		return nil, done, err
	}
	var keep []int
	for r := 0; r < b.NumRows() && e.emitted < e.plan.Limit; r++ {
		if e.skipped < e.plan.Offset {
			e.skipped++
			continue
		}
		keep = append(keep, r)
		e.emitted++
	}
	return b.SelectRows(keep), false, nil
}
