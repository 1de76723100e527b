package executors

import (
	"fmt"
	"strings"

	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
	"github.com/ryogrid/VimanaDB/lib/types"
)

// GroupByExecutor is blocking: the child stream is drained completely,
// then a single batch with one row per group comes out. Groups appear in
// first-seen order, so the result is deterministic for a fixed input
// order.
type GroupByExecutor struct {
	plan     *plans.GroupByPlanNode
	child    Executor
	finished bool
}

func NewGroupByExecutor(plan *plans.GroupByPlanNode, child Executor) *GroupByExecutor {
	return &GroupByExecutor{plan: plan, child: child}
}

func (e *GroupByExecutor) Init() error {
	return e.child.Init()
}

type aggState struct {
	count int64
	sum   types.Value
	min   types.Value
	max   types.Value
	init  bool
}

func (e *GroupByExecutor) Next() (*batch.Batch, Done, error) {
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

	keyIdxs := make([]int, len(e.plan.Keys))
	for i, k := range e.plan.Keys {
		if keyIdxs[i] = input.ColumnIndex(k); keyIdxs[i] < 0 {
			return nil, false, fmt.Errorf("group key column %s not found", k)
		}
	}
	aggIdxs := make([]int, len(e.plan.AggCols))
	for i, c := range e.plan.AggCols {
		if aggIdxs[i] = input.ColumnIndex(c); aggIdxs[i] < 0 {
			return nil, false, fmt.Errorf("aggregate column %s not found", c)
		}
	}

	var order []string
	groups := make(map[string][]types.Value)
	states := make(map[string][]*aggState)
	for r := 0; r < input.NumRows(); r++ {
		parts := make([]string, len(keyIdxs))
		keyVals := make([]types.Value, len(keyIdxs))
		for i, idx := range keyIdxs {
			keyVals[i] = input.GetValue(r, idx)
			parts[i] = keyVals[i].String()
		}
		gk := strings.Join(parts, "\x1f")
		st, seen := states[gk]
		if !seen {
			st = make([]*aggState, len(aggIdxs))
			for i := range st {
				st[i] = &aggState{}
			}
			states[gk] = st
			groups[gk] = keyVals
			order = append(order, gk)
		}
		for i, idx := range aggIdxs {
			v := input.GetValue(r, idx)
			if v.IsNull() {
				continue
			}
			s := st[i]
			s.count++
			if !s.init {
				s.sum = v
				s.min = v
				s.max = v
				s.init = true
				continue
			}
			s.sum = s.sum.Add(v)
			if v.CompareLessThan(s.min) {
				s.min = v
			}
			if v.CompareGreaterThan(s.max) {
				s.max = v
			}
		}
	}

	outCols := append([]string{}, e.plan.Keys...)
	for i := range e.plan.AggTypes {
		outCols = append(outCols, e.plan.AggTypes[i].String()+"("+e.plan.AggCols[i]+")")
	}
	out := batch.New(outCols)
	for _, gk := range order {
		row := append([]types.Value{}, groups[gk]...)
		for i, at := range e.plan.AggTypes {
			s := states[gk][i]
			if !s.init && at != operators.COUNT {
				// every input for this group was NULL
				row = append(row, types.NewNull())
				continue
			}
			switch at {
			case operators.COUNT:
				row = append(row, types.NewInteger(s.count))
			case operators.SUM:
				row = append(row, s.sum)
			case operators.MIN:
				row = append(row, s.min)
			case operators.MAX:
				row = append(row, s.max)
			case operators.AVG:
				row = append(row, types.NewFloat(s.sum.ToFloat()/float64(s.count)))
			}
		}
		out.AppendRow(row)
	}
	return out, false, nil
}
