package optimizer

import (
	"github.com/ryogrid/VimanaDB/lib/catalog"
	"github.com/ryogrid/VimanaDB/lib/planner/memo"
	"github.com/ryogrid/VimanaDB/lib/planner/rules"
)

// OptimizerContext bundles the per-query state of one optimization run.
// It satisfies rules.Context, so rules consult the memo and catalog
// without seeing the task machinery.
type OptimizerContext struct {
	memo         *memo.Memo
	catalog      *catalog.Catalog
	taskStack    *OptimizerTaskStack
	rulesManager *rules.RulesManager
	costModel    *CostModel

	// rewriteFired counts rule firings across a rewrite pass so the
	// driver can rerun passes until a whole pass changes nothing.
	rewriteFired int
}

func NewOptimizerContext(cat *catalog.Catalog, rm *rules.RulesManager, cm *CostModel) *OptimizerContext {
	return &OptimizerContext{
		memo:         memo.NewMemo(),
		catalog:      cat,
		taskStack:    NewOptimizerTaskStack(),
		rulesManager: rm,
		costModel:    cm,
	}
}

func (c *OptimizerContext) Memo() *memo.Memo          { return c.memo }
func (c *OptimizerContext) Catalog() *catalog.Catalog { return c.catalog }
