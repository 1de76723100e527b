package executors

import (
	"strings"

	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
)

// FunctionScanExecutor emits only the UDF output columns for each input
// batch, without merging them back onto the input.
type FunctionScanExecutor struct {
	plan  *plans.FunctionScanPlanNode
	child Executor
}

func NewFunctionScanExecutor(plan *plans.FunctionScanPlanNode, child Executor) *FunctionScanExecutor {
	return &FunctionScanExecutor{plan: plan, child: child}
}

func (e *FunctionScanExecutor) Init() error {
	return e.child.Init()
}

func (e *FunctionScanExecutor) Next() (*batch.Batch, Done, error) {
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
	out := batch.New(qualified)
	for r := 0; r < funcOut.NumRows(); r++ {
		out.AppendRow(funcOut.Row(r))
	}
	return out, false, nil
}
