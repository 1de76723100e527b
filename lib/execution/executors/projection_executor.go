package executors

import (
	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
	"github.com/ryogrid/VimanaDB/lib/types"
)

// ProjectionExecutor evaluates the projection expressions per batch,
// emitting one output batch per input batch. Output columns carry the
// expression strings as names.
type ProjectionExecutor struct {
	plan  *plans.ProjectionPlanNode
	child Executor
}

func NewProjectionExecutor(plan *plans.ProjectionPlanNode, child Executor) *ProjectionExecutor {
	return &ProjectionExecutor{plan: plan, child: child}
}

func (e *ProjectionExecutor) Init() error {
	return e.child.Init()
}

func (e *ProjectionExecutor) Next() (*batch.Batch, Done, error) {
	b, done, err := e.child.Next()
	if err != nil || done {
		return nil, done, err
	}
	cols := make([]string, len(e.plan.Exprs))
	colVals := make([][]types.Value, len(e.plan.Exprs))
	for i, expr := range e.plan.Exprs {
		cols[i] = expr.String()
		vals, err := expr.Evaluate(b)
		if err != nil {
			return nil, false, err
		}
		colVals[i] = vals
	}
	out := batch.New(cols)
	for r := 0; r < b.NumRows(); r++ {
		row := make([]types.Value, len(colVals))
		for c := range colVals {
			row[c] = colVals[c][r]
		}
		out.AppendRow(row)
	}
	return out, false, nil
}
