package executors

import (
	"fmt"

	"github.com/ryogrid/VimanaDB/lib/catalog"
	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
)

// CreateTableExecutor registers the table in the catalog and allocates
// its heap. It emits no batches.
type CreateTableExecutor struct {
	plan *plans.CreateTablePlanNode
	ctx  *ExecutorContext
}

func NewCreateTableExecutor(plan *plans.CreateTablePlanNode, ctx *ExecutorContext) *CreateTableExecutor {
	return &CreateTableExecutor{plan: plan, ctx: ctx}
}

func (e *CreateTableExecutor) Init() error {
	if e.ctx.Catalog().GetTableCatalogEntry(e.plan.Table) != nil {
		return fmt.Errorf("table %s already exists", e.plan.Table)
	}
	return nil
}

func (e *CreateTableExecutor) Next() (*batch.Batch, Done, error) {
	entry := &catalog.TableCatalogEntry{Name: e.plan.Table, Columns: e.plan.Columns}
	if err := e.ctx.Catalog().CreateTableCatalogEntry(entry); err != nil {
		return nil, false, err
	}
	colNames := make([]string, len(e.plan.Columns))
	for i, cd := range e.plan.Columns {
		colNames[i] = cd.Name
	}
	if err := e.ctx.Storage().CreateTable(e.plan.Table, colNames); err != nil {
		return nil, false, err
	}
	return nil, true, nil
}
