package optimizer

import (
	"fmt"
	"time"

	"github.com/ryogrid/VimanaDB/lib/catalog"
	"github.com/ryogrid/VimanaDB/lib/common"
	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/planner/memo"
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
	"github.com/ryogrid/VimanaDB/lib/planner/rules"
)

// PlanGenerator turns a bound logical operator tree into the cheapest
// physical plan: heuristic rewrite in two stages, then cost-based search
// over the memo, then extraction of the winning expressions.
type PlanGenerator struct {
	rulesManager *rules.RulesManager
	costModel    *CostModel
	catalog      *catalog.Catalog
	timeout      time.Duration
}

func NewPlanGenerator(cat *catalog.Catalog, enableParallel bool, timeout time.Duration) *PlanGenerator {
	if timeout <= 0 {
		timeout = common.OptimizerTimeoutDefault
	}
	return &PlanGenerator{
		rulesManager: rules.NewRulesManager(enableParallel),
		costModel:    NewCostModel(),
		catalog:      cat,
		timeout:      timeout,
	}
}

func (pg *PlanGenerator) Build(root operators.Operator) (plans.Plan, error) {
	return pg.optimize(root, time.Now().Add(pg.timeout))
}

func (pg *PlanGenerator) optimize(root operators.Operator, deadline time.Time) (plans.Plan, error) {
	ctx := NewOptimizerContext(pg.catalog, pg.rulesManager, pg.costModel)
	rootExpr := ctx.memo.AddOperatorToGroup(root, memo.UnassignedGroupID)
	rootGroupID := rootExpr.GroupID

	if err := pg.rewriteToFixpoint(ctx, deadline, func() OptimizerTask {
		return NewTopDownRewriteTask(ctx, rootGroupID, pg.rulesManager.RewriteStageOne())
	}); err != nil {
		return nil, err
	}
	if err := pg.rewriteToFixpoint(ctx, deadline, func() OptimizerTask {
		return NewBottomUpRewriteTask(ctx, rootGroupID, pg.rulesManager.RewriteStageTwo())
	}); err != nil {
		return nil, err
	}
	ctx.taskStack.Push(NewOptimizeGroupTask(ctx, rootGroupID, memo.PropertyDefault))
	if err := pg.executeTaskStack(ctx, deadline); err != nil {
		return nil, err
	}
	return pg.buildOptimalPlan(ctx, rootGroupID, memo.PropertyDefault)
}

// rewriteToFixpoint reruns a whole rewrite pass until one pass fires no
// rule. A child rewrite can open up a match at its parent, which only a
// fresh pass sees. Runaway rule sets hit the iteration cap instead of
// looping forever.
func (pg *PlanGenerator) rewriteToFixpoint(ctx *OptimizerContext, deadline time.Time, newPass func() OptimizerTask) error {
	for i := 0; ; i++ {
		if i >= common.MaxRewriteIterations {
			return fmt.Errorf("rewrite passes did not settle after %d iterations", common.MaxRewriteIterations)
		}
		before := ctx.rewriteFired
		ctx.taskStack.Push(newPass())
		if err := pg.executeTaskStack(ctx, deadline); err != nil {
			return err
		}
		if ctx.rewriteFired == before {
			return nil
		}
	}
}

// executeTaskStack drains the task stack, checking the wall-clock
// deadline before each task. Timing out mid-search leaves the memo
// behind; the caller gets ErrOptimizerTimeout, never a partial plan.
func (pg *PlanGenerator) executeTaskStack(ctx *OptimizerContext, deadline time.Time) error {
	for !ctx.taskStack.Empty() {
		if time.Now().After(deadline) {
			common.ShPrintf(common.ERROR, "optimizer deadline exceeded, aborting search\n")
			common.RuntimeStack()
			return common.ErrOptimizerTimeout
		}
		if err := ctx.taskStack.Pop().Execute(); err != nil {
			return err
		}
	}
	return nil
}

// buildOptimalPlan stitches the winning physical expressions back into
// an operator tree. Extraction is deterministic: winners are fixed by
// the time this runs, and re-extraction overwrites the same children.
func (pg *PlanGenerator) buildOptimalPlan(ctx *OptimizerContext, groupID int, prop memo.PropertyType) (plans.Plan, error) {
	winner, _, ok := ctx.memo.GetGroup(groupID).Winner(prop)
	if !ok {
		return nil, fmt.Errorf("no physical plan found for group %d", groupID)
	}
	children := make([]operators.Operator, len(winner.ChildGroupIDs))
	for i, cid := range winner.ChildGroupIDs {
		childPlan, err := pg.buildOptimalPlan(ctx, cid, prop)
		if err != nil {
			return nil, err
		}
		children[i] = childPlan
	}
	winner.Op.SetChildren(children)
	return winner.Op.(plans.Plan), nil
}
