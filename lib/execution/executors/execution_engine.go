package executors

import (
	"fmt"

	"github.com/ryogrid/VimanaDB/lib/common"
	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
)

type ExecutionEngine struct{}

func NewExecutionEngine() *ExecutionEngine {
	return &ExecutionEngine{}
}

// BuildExecutionTree instantiates the executor tree for a physical
// plan. Explain is built without child executors since it only renders
// the subtree; Exchange builds its worker trees itself at Init.
func (e *ExecutionEngine) BuildExecutionTree(plan plans.Plan, ctx *ExecutorContext) (Executor, error) {
	switch p := plan.(type) {
	case *plans.SeqScanPlanNode:
		return NewSeqScanExecutor(p, ctx), nil
	case *plans.PredicatePlanNode:
		child, err := e.BuildExecutionTree(p.GetChildAt(0), ctx)
		if err != nil {
			return nil, err
		}
		return NewPredicateExecutor(p, child), nil
	case *plans.ProjectionPlanNode:
		child, err := e.BuildExecutionTree(p.GetChildAt(0), ctx)
		if err != nil {
			return nil, err
		}
		return NewProjectionExecutor(p, child), nil
	case *plans.HashJoinPlanNode:
		left, err := e.BuildExecutionTree(p.GetChildAt(0), ctx)
		if err != nil {
			return nil, err
		}
		right, err := e.BuildExecutionTree(p.GetChildAt(1), ctx)
		if err != nil {
			return nil, err
		}
		return NewHashJoinExecutor(p, left, right), nil
	case *plans.NestedLoopJoinPlanNode:
		left, err := e.BuildExecutionTree(p.GetChildAt(0), ctx)
		if err != nil {
			return nil, err
		}
		right, err := e.BuildExecutionTree(p.GetChildAt(1), ctx)
		if err != nil {
			return nil, err
		}
		return NewNestedLoopJoinExecutor(p, left, right), nil
	case *plans.ApplyAndMergePlanNode:
		child, err := e.BuildExecutionTree(p.GetChildAt(0), ctx)
		if err != nil {
			return nil, err
		}
		return NewApplyAndMergeExecutor(p, child), nil
	case *plans.FunctionScanPlanNode:
		child, err := e.BuildExecutionTree(p.GetChildAt(0), ctx)
		if err != nil {
			return nil, err
		}
		return NewFunctionScanExecutor(p, child), nil
	case *plans.GroupByPlanNode:
		child, err := e.BuildExecutionTree(p.GetChildAt(0), ctx)
		if err != nil {
			return nil, err
		}
		return NewGroupByExecutor(p, child), nil
	case *plans.OrderByPlanNode:
		child, err := e.BuildExecutionTree(p.GetChildAt(0), ctx)
		if err != nil {
			return nil, err
		}
		return NewOrderByExecutor(p, child), nil
	case *plans.LimitPlanNode:
		child, err := e.BuildExecutionTree(p.GetChildAt(0), ctx)
		if err != nil {
			return nil, err
		}
		return NewLimitExecutor(p, child), nil
	case *plans.SamplePlanNode:
		child, err := e.BuildExecutionTree(p.GetChildAt(0), ctx)
		if err != nil {
			return nil, err
		}
		return NewSampleExecutor(p, child), nil
	case *plans.UnionPlanNode:
		var children []Executor
		for _, c := range p.GetChildren() {
			child, err := e.BuildExecutionTree(c.(plans.Plan), ctx)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return NewUnionExecutor(p, children), nil
	case *plans.InsertPlanNode:
		return NewInsertExecutor(p, ctx), nil
	case *plans.DeletePlanNode:
		child, err := e.BuildExecutionTree(p.GetChildAt(0), ctx)
		if err != nil {
			return nil, err
		}
		return NewDeleteExecutor(p, child, ctx), nil
	case *plans.CreateTablePlanNode:
		return NewCreateTableExecutor(p, ctx), nil
	case *plans.CreateIndexPlanNode:
		return NewCreateIndexExecutor(p, ctx), nil
	case *plans.CreateMaterializedViewPlanNode:
		child, err := e.BuildExecutionTree(p.GetChildAt(0), ctx)
		if err != nil {
			return nil, err
		}
		return NewCreateMaterializedViewExecutor(p, child, ctx), nil
	case *plans.VectorIndexScanPlanNode:
		child, err := e.BuildExecutionTree(p.GetChildAt(0), ctx)
		if err != nil {
			return nil, err
		}
		return NewVectorIndexScanExecutor(p, child, ctx), nil
	case *plans.ExchangePlanNode:
		child, err := e.BuildExecutionTree(p.GetChildAt(0), ctx)
		if err != nil {
			return nil, err
		}
		return NewExchangeExecutor(p, child, ctx, e), nil
	case *plans.QueueScanPlanNode:
		return NewQueueScanExecutor(p, ctx), nil
	case *plans.ExplainPlanNode:
		return NewExplainExecutor(p), nil
	default:
		return nil, fmt.Errorf("no executor for plan node %s", plan.Signature())
	}
}

// ExecutePlan builds and initializes the executor tree. Every failure
// surfaces as an ExecutorError wrapping the cause.
func (e *ExecutionEngine) ExecutePlan(plan plans.Plan, ctx *ExecutorContext) (Executor, error) {
	exec, err := e.BuildExecutionTree(plan, ctx)
	if err != nil {
		common.ShPrintf(common.ERROR, "plan build failed: %v\n", err)
		return nil, common.NewExecutorError(err)
	}
	if err := exec.Init(); err != nil {
		common.ShPrintf(common.ERROR, "executor init failed: %v\n", err)
		return nil, common.NewExecutorError(err)
	}
	return exec, nil
}

// ExecutePlanFetchAll runs the plan to completion and collects every
// output batch.
func (e *ExecutionEngine) ExecutePlanFetchAll(plan plans.Plan, ctx *ExecutorContext) ([]*batch.Batch, error) {
	exec, err := e.ExecutePlan(plan, ctx)
	if err != nil {
		return nil, err
	}
	var out []*batch.Batch
	for {
		b, done, err := exec.Next()
		if err != nil {
			common.ShPrintf(common.ERROR, "executor failed: %v\n", err)
			return nil, common.NewExecutorError(err)
		}
		if done {
			return out, nil
		}
		if b != nil {
			out = append(out, b)
		}
	}
}
