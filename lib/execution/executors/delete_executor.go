package executors

import (
	"fmt"

	"github.com/ryogrid/VimanaDB/lib/common"
	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
	"github.com/ryogrid/VimanaDB/lib/types"
)

// DeleteExecutor drains its scan child, collects the row ids that
// survived the scan's predicate and removes them from the table. A
// single batch with the deleted row count comes out.
type DeleteExecutor struct {
	plan     *plans.DeletePlanNode
	child    Executor
	ctx      *ExecutorContext
	finished bool
}

func NewDeleteExecutor(plan *plans.DeletePlanNode, child Executor, ctx *ExecutorContext) *DeleteExecutor {
	return &DeleteExecutor{plan: plan, child: child, ctx: ctx}
}

func (e *DeleteExecutor) Init() error {
	return e.child.Init()
}

func (e *DeleteExecutor) Next() (*batch.Batch, Done, error) {
	if e.finished {
		return nil, true, nil
	}
	e.finished = true

	var rowIDs []uint64
	for {
		b, done, err := e.child.Next()
		if err != nil {
			return nil, false, err
		}
		if done {
			break
		}
		idx := rowIDColumnIndex(b)
		if idx < 0 {
			return nil, false, fmt.Errorf("delete scan output carries no row id column")
		}
		for r := 0; r < b.NumRows(); r++ {
			rowIDs = append(rowIDs, uint64(b.GetValue(r, idx).ToInteger()))
		}
	}
	deleted, err := e.ctx.Storage().DeleteRows(e.plan.Table, rowIDs)
	if err != nil {
		return nil, false, err
	}
	count, err := e.ctx.Storage().RowCount(e.plan.Table)
	if err != nil {
		return nil, false, err
	}
	if err := e.ctx.Catalog().SetTableRowCount(e.plan.Table, count); err != nil {
		return nil, false, err
	}
	out := batch.NewWithRows([]string{"count"},
		[][]types.Value{{types.NewInteger(int64(deleted))}})
	return out, false, nil
}

// rowIDColumnIndex finds the row id column whether or not the producing
// scan qualified it with an alias.
func rowIDColumnIndex(b *batch.Batch) int {
	for i, c := range b.Columns() {
		if c == common.RowIDColumn {
			return i
		}
		if len(c) > len(common.RowIDColumn) &&
			c[len(c)-len(common.RowIDColumn)-1] == '.' &&
			c[len(c)-len(common.RowIDColumn):] == common.RowIDColumn {
			return i
		}
	}
	return -1
}
