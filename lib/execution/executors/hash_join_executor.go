package executors

import (
	"fmt"
	"strings"

	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
	"github.com/ryogrid/VimanaDB/lib/types"
)

// HashJoinExecutor drains the left child into a hash table on the first
// Next call, then probes with the right child one batch at a time. Each
// right batch yields one output batch. An empty build side finishes the
// join immediately without pulling the probe side.
type HashJoinExecutor struct {
	plan     *plans.HashJoinPlanNode
	left     Executor
	right    Executor
	built    bool
	table    map[string][][]types.Value
	leftCols []string
}

func NewHashJoinExecutor(plan *plans.HashJoinPlanNode, left Executor, right Executor) *HashJoinExecutor {
	return &HashJoinExecutor{plan: plan, left: left, right: right}
}

func (e *HashJoinExecutor) Init() error {
	if err := e.left.Init(); err != nil {
		return err
	}
	return e.right.Init()
}

func joinKey(b *batch.Batch, rowIdx int, keyIdxs []int) string {
	parts := make([]string, len(keyIdxs))
	for i, idx := range keyIdxs {
		parts[i] = b.GetValue(rowIdx, idx).String()
	}
	return strings.Join(parts, "\x1f")
}

func keyIndexes(b *batch.Batch, keys []string) ([]int, error) {
	idxs := make([]int, len(keys))
	for i, k := range keys {
		idx := b.ColumnIndex(k)
		if idx < 0 {
			return nil, fmt.Errorf("join key column %s not found", k)
		}
		idxs[i] = idx
	}
	return idxs, nil
}

func (e *HashJoinExecutor) build() error {
	e.table = make(map[string][][]types.Value)
	for {
		lb, done, err := e.left.Next()
		if err != nil {
			return err
		}
		if done {
			e.built = true
			return nil
		}
		if lb.NumRows() == 0 {
			e.leftCols = lb.Columns()
			continue
		}
		e.leftCols = lb.Columns()
		idxs, err := keyIndexes(lb, e.plan.LeftKeys)
		if err != nil {
			return err
		}
		for r := 0; r < lb.NumRows(); r++ {
			k := joinKey(lb, r, idxs)
			e.table[k] = append(e.table[k], lb.Row(r))
		}
	}
}

func (e *HashJoinExecutor) Next() (*batch.Batch, Done, error) {
	if !e.built {
		if err := e.build(); err != nil {
			return nil, false, err
		}
		if len(e.table) == 0 {
			return nil, true, nil
		}
	}
	rb, done, err := e.right.Next()
	if err != nil || done {
		return nil, done, err
	}
	outCols := append(append([]string{}, e.leftCols...), rb.Columns()...)
	out := batch.New(outCols)
	if rb.NumRows() > 0 {
		idxs, err := keyIndexes(rb, e.plan.RightKeys)
		if err != nil {
			return nil, false, err
		}
		for r := 0; r < rb.NumRows(); r++ {
			for _, leftRow := range e.table[joinKey(rb, r, idxs)] {
				row := append(append([]types.Value{}, leftRow...), rb.Row(r)...)
				out.AppendRow(row)
			}
		}
	}
	return out, false, nil
}
