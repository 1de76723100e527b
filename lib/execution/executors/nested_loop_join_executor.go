package executors

import (
	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
	"github.com/ryogrid/VimanaDB/lib/types"
)

// NestedLoopJoinExecutor buffers the whole right side, then pairs each
// left batch against it. The cross product of one left batch and the
// buffered right rows is materialized as one batch and filtered by the
// predicate, so each left batch yields one output batch.
type NestedLoopJoinExecutor struct {
	plan      *plans.NestedLoopJoinPlanNode
	left      Executor
	right     Executor
	buffered  bool
	rightRows [][]types.Value
	rightCols []string
}

func NewNestedLoopJoinExecutor(plan *plans.NestedLoopJoinPlanNode, left Executor, right Executor) *NestedLoopJoinExecutor {
	return &NestedLoopJoinExecutor{plan: plan, left: left, right: right}
}

func (e *NestedLoopJoinExecutor) Init() error {
	if err := e.left.Init(); err != nil {
		return err
	}
	return e.right.Init()
}

func (e *NestedLoopJoinExecutor) buffer() error {
	for {
		rb, done, err := e.right.Next()
		if err != nil {
			return err
		}
		if done {
			e.buffered = true
			return nil
		}
		e.rightCols = rb.Columns()
		for r := 0; r < rb.NumRows(); r++ {
			e.rightRows = append(e.rightRows, rb.Row(r))
		}
	}
}

func (e *NestedLoopJoinExecutor) Next() (*batch.Batch, Done, error) {
	if !e.buffered {
		if err := e.buffer(); err != nil {
			return nil, false, err
		}
	}
	lb, done, err := e.left.Next()
	if err != nil || done {
		return nil, done, err
	}
	outCols := append(append([]string{}, lb.Columns()...), e.rightCols...)
	merged := batch.New(outCols)
	for l := 0; l < lb.NumRows(); l++ {
		for _, rightRow := range e.rightRows {
			row := append(append([]types.Value{}, lb.Row(l)...), rightRow...)
			merged.AppendRow(row)
		}
	}
	if e.plan.Predicate == nil {
		return merged, false, nil
	}
	out, err := filterBatch(merged, e.plan.Predicate)
	if err != nil {
		return nil, false, err
	}
	return out, false, nil
}
