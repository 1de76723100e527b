package executors

import (
	"fmt"

	"github.com/ryogrid/VimanaDB/lib/catalog"
	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
	"github.com/ryogrid/VimanaDB/lib/types"
)

// CreateMaterializedViewExecutor drains its child and persists the
// result as a regular table under the view's name. Column types are
// taken from the first row; an empty result stores varchar columns.
type CreateMaterializedViewExecutor struct {
	plan     *plans.CreateMaterializedViewPlanNode
	child    Executor
	ctx      *ExecutorContext
	finished bool
}

func NewCreateMaterializedViewExecutor(plan *plans.CreateMaterializedViewPlanNode,
	child Executor, ctx *ExecutorContext) *CreateMaterializedViewExecutor {
	return &CreateMaterializedViewExecutor{plan: plan, child: child, ctx: ctx}
}

func (e *CreateMaterializedViewExecutor) Init() error {
	if e.ctx.Catalog().GetTableCatalogEntry(e.plan.ViewName) != nil {
		return fmt.Errorf("table %s already exists", e.plan.ViewName)
	}
	return e.child.Init()
}

func (e *CreateMaterializedViewExecutor) Next() (*batch.Batch, Done, error) {
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
	result := batch.Concat(all)

	srcCols := result.Columns()
	viewCols := e.plan.Columns
	if len(viewCols) == 0 {
		viewCols = srcCols
	}
	if len(viewCols) != len(srcCols) {
		return nil, false, fmt.Errorf("view %s declares %d columns but query yields %d",
			e.plan.ViewName, len(viewCols), len(srcCols))
	}

	defs := make([]catalog.ColumnDef, len(viewCols))
	for i := range viewCols {
		colType := types.Varchar
		if result.NumRows() > 0 {
			colType = result.GetValue(0, i).ValueType()
		}
		defs[i] = catalog.ColumnDef{Name: viewCols[i], Type: colType}
	}
	entry := &catalog.TableCatalogEntry{Name: e.plan.ViewName, Columns: defs, RowCount: uint64(result.NumRows())}
	if err := e.ctx.Catalog().CreateTableCatalogEntry(entry); err != nil {
		return nil, false, err
	}
	if err := e.ctx.Storage().CreateTable(e.plan.ViewName, viewCols); err != nil {
		return nil, false, err
	}

	renamed := batch.New(viewCols)
	for r := 0; r < result.NumRows(); r++ {
		renamed.AppendRow(result.Row(r))
	}
	if err := e.ctx.Storage().Write(e.plan.ViewName, renamed); err != nil {
		return nil, false, err
	}
	return nil, true, nil
}
