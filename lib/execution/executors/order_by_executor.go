package executors

import (
	"sort"

	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
	"github.com/ryogrid/VimanaDB/lib/types"
)

// OrderByExecutor is blocking: the whole input is drained, key
// expressions are evaluated once over the combined batch and the rows
// come out as a single stably sorted batch.
type OrderByExecutor struct {
	plan     *plans.OrderByPlanNode
	child    Executor
	finished bool
}

func NewOrderByExecutor(plan *plans.OrderByPlanNode, child Executor) *OrderByExecutor {
	return &OrderByExecutor{plan: plan, child: child}
}

func (e *OrderByExecutor) Init() error {
	return e.child.Init()
}

func (e *OrderByExecutor) Next() (*batch.Batch, Done, error) {
	if e.finished {
		return nil, true, nil
	}
	e.finished = true

	var all []*batch.Batch
	for {
		b, done, err := e.child.Next()
		if err != nil {
			return nil, false, err
		}
		if done {
			break
		}
		all = append(all, b)
	}
	input := batch.Concat(all)

	keyVals := make([][]types.Value, len(e.plan.Keys))
	for i, k := range e.plan.Keys {
		vals, err := k.Expr.Evaluate(input)
		if err != nil {
			return nil, false, err
		}
		keyVals[i] = vals
	}

	idxs := make([]int, input.NumRows())
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool {
		ra, rb := idxs[a], idxs[b]
		for i, k := range e.plan.Keys {
			va, vb := keyVals[i][ra], keyVals[i][rb]
			// NULL keys sort last regardless of direction
			if va.IsNull() || vb.IsNull() {
				if va.IsNull() == vb.IsNull() {
					continue
				}
				return vb.IsNull()
			}
			if va.CompareEquals(vb) {
				continue
			}
			if k.Order == operators.DESC {
				return va.CompareGreaterThan(vb)
			}
			return va.CompareLessThan(vb)
		}
		return false
	})
	return input.SelectRows(idxs), false, nil
}
