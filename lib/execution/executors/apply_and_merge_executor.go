package executors

import (
	"strings"

	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
)

// ApplyAndMergeExecutor runs the UDF over each input batch and merges
// the UDF output columns onto it, qualified with the lowercased function
// name. One input batch yields exactly one output batch.
type ApplyAndMergeExecutor struct {
	plan  *plans.ApplyAndMergePlanNode
	child Executor
}

func NewApplyAndMergeExecutor(plan *plans.ApplyAndMergePlanNode, child Executor) *ApplyAndMergeExecutor {
	return &ApplyAndMergeExecutor{plan: plan, child: child}
}

func (e *ApplyAndMergeExecutor) Init() error {
	return e.child.Init()
}

func (e *ApplyAndMergeExecutor) Next() (*batch.Batch, Done, error) {
	b, done, err := e.child.Next()
	if err != nil || done {
		return nil, done, err
	}
	funcOut, err := e.plan.FuncExpr.EvaluateBatch(b)
	if err != nil {
		return nil, false, err
	}
	alias := strings.ToLower(e.plan.FuncExpr.FunctionName())
	qualified := make([]string, funcOut.NumCols())
	for i, c := range funcOut.Columns() {
		qualified[i] = alias + "." + c
	}
	renamed := batch.New(qualified)
	for r := 0; r < funcOut.NumRows(); r++ {
		renamed.AppendRow(funcOut.Row(r))
	}
	return b.HorizontalMerge(renamed), false, nil
}
