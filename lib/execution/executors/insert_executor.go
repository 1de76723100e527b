package executors

import (
	"fmt"

	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
	"github.com/ryogrid/VimanaDB/lib/types"
)

// InsertExecutor writes the literal rows into the table and emits a
// single batch reporting how many rows went in. The catalog row count is
// refreshed from storage afterwards.
type InsertExecutor struct {
	plan     *plans.InsertPlanNode
	ctx      *ExecutorContext
	finished bool
}

func NewInsertExecutor(plan *plans.InsertPlanNode, ctx *ExecutorContext) *InsertExecutor {
	return &InsertExecutor{plan: plan, ctx: ctx}
}

func (e *InsertExecutor) Init() error {
	if e.ctx.Catalog().GetTableCatalogEntry(e.plan.Table) == nil {
		return fmt.Errorf("table %s does not exist", e.plan.Table)
	}
	return nil
}

func (e *InsertExecutor) Next() (*batch.Batch, Done, error) {
	if e.finished {
		return nil, true, nil
	}
	e.finished = true

	in := batch.NewWithRows(e.plan.Columns, e.plan.Rows)
	if err := e.ctx.Storage().Write(e.plan.Table, in); err != nil {
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
		[][]types.Value{{types.NewInteger(int64(len(e.plan.Rows)))}})
	return out, false, nil
}
