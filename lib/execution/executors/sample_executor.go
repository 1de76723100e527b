package executors

import (
	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
)

// SampleExecutor keeps every Rate-th row, counting positions across the
// whole stream so batch boundaries do not skew the sample.
type SampleExecutor struct {
	plan  *plans.SamplePlanNode
	child Executor
	seen  int
}

func NewSampleExecutor(plan *plans.SamplePlanNode, child Executor) *SampleExecutor {
	return &SampleExecutor{plan: plan, child: child}
}

func (e *SampleExecutor) Init() error {
	return e.child.Init()
}

func (e *SampleExecutor) Next() (*batch.Batch, Done, error) {
	b, done, err := e.child.Next()
	if err != nil || done {
		return nil, done, err
	}
	if e.plan.Rate <= 1 {
		e.seen += b.NumRows()
		return b, false, nil
	}
	var keep []int
	for r := 0; r < b.NumRows(); r++ {
		if e.seen%e.plan.Rate == 0 {
			keep = append(keep, r)
		}
		e.seen++
	}
	return b.SelectRows(keep), false, nil
}
