package optimizer

import (
	"fmt"

	"github.com/ryogrid/VimanaDB/lib/common"
	"github.com/ryogrid/VimanaDB/lib/planner/memo"
	"github.com/ryogrid/VimanaDB/lib/planner/rules"
)

// applyFirstMatch fires the first rule whose pattern binds and whose
// Check passes against the group's representative expression, replacing
// the group content with the rule output. Reports whether anything fired.
func applyFirstMatch(ctx *OptimizerContext, groupID int, ruleList []rules.Rule) (bool, error) {
	group := ctx.memo.GetGroup(groupID)
	exprs := group.LogicalExprs()
	if len(exprs) == 0 {
		return false, nil
	}
	expr := exprs[0]
	for _, rule := range ruleList {
		b := rules.Bind(ctx.memo, expr, rule.Pattern())
		if b == nil || !rule.Check(b, ctx) {
			continue
		}
		outs := rule.Apply(b, ctx)
		if len(outs) == 0 {
			continue
		}
		common.ShPrintf(common.OPTIMIZER_TRACE, "rewrite: rule %d fired on group %d\n", rule.ID(), groupID)
		ctx.memo.ReplaceGroupExpression(outs[0], groupID)
		ctx.rewriteFired++
		return true, nil
	}
	return false, nil
}

// rewriteExhaustively reapplies the rule list to a group until nothing
// fires anymore. A rule set whose outputs keep matching each other would
// loop forever, so the iteration count is capped.
func rewriteExhaustively(ctx *OptimizerContext, groupID int, ruleList []rules.Rule) error {
	for iter := 0; ; iter++ {
		if iter >= common.MaxRewriteIterations {
			return fmt.Errorf("rewrite did not settle on group %d after %d iterations",
				groupID, common.MaxRewriteIterations)
		}
		fired, err := applyFirstMatch(ctx, groupID, ruleList)
		if err != nil {
			return err
		}
		if !fired {
			return nil
		}
	}
}

// TopDownRewriteTask rewrites a group, then descends into the children
// of whatever expression the group settled on.
type TopDownRewriteTask struct {
	ctx     *OptimizerContext
	groupID int
	rules   []rules.Rule
}

func NewTopDownRewriteTask(ctx *OptimizerContext, groupID int, ruleList []rules.Rule) *TopDownRewriteTask {
	return &TopDownRewriteTask{ctx: ctx, groupID: groupID, rules: ruleList}
}

func (t *TopDownRewriteTask) Execute() error {
	if err := rewriteExhaustively(t.ctx, t.groupID, t.rules); err != nil {
		return err
	}
	group := t.ctx.memo.GetGroup(t.groupID)
	exprs := group.LogicalExprs()
	if len(exprs) == 0 {
		return nil
	}
	for _, cid := range exprs[0].ChildGroupIDs {
		t.ctx.taskStack.Push(NewTopDownRewriteTask(t.ctx, cid, t.rules))
	}
	return nil
}

// BottomUpRewriteTask rewrites the children first, then the group
// itself. The task re-pushes itself with childrenExplored set so the
// stack sequences the two phases.
type BottomUpRewriteTask struct {
	ctx              *OptimizerContext
	groupID          int
	rules            []rules.Rule
	childrenExplored bool
}

func NewBottomUpRewriteTask(ctx *OptimizerContext, groupID int, ruleList []rules.Rule) *BottomUpRewriteTask {
	return &BottomUpRewriteTask{ctx: ctx, groupID: groupID, rules: ruleList}
}

func (t *BottomUpRewriteTask) Execute() error {
	if t.childrenExplored {
		return rewriteExhaustively(t.ctx, t.groupID, t.rules)
	}
	t.ctx.taskStack.Push(&BottomUpRewriteTask{
		ctx: t.ctx, groupID: t.groupID, rules: t.rules, childrenExplored: true})
	group := t.ctx.memo.GetGroup(t.groupID)
	exprs := group.LogicalExprs()
	if len(exprs) == 0 {
		return nil
	}
	for _, cid := range exprs[0].ChildGroupIDs {
		t.ctx.taskStack.Push(NewBottomUpRewriteTask(t.ctx, cid, t.rules))
	}
	return nil
}

// OptimizeGroupTask starts cost-based search on a group for a required
// property. A group with a recorded winner is already done.
type OptimizeGroupTask struct {
	ctx     *OptimizerContext
	groupID int
	prop    memo.PropertyType
}

func NewOptimizeGroupTask(ctx *OptimizerContext, groupID int, prop memo.PropertyType) *OptimizeGroupTask {
	return &OptimizeGroupTask{ctx: ctx, groupID: groupID, prop: prop}
}

func (t *OptimizeGroupTask) Execute() error {
	group := t.ctx.memo.GetGroup(t.groupID)
	if group.HasWinner(t.prop) {
		return nil
	}
	for _, expr := range group.Exprs {
		if expr.IsLogical() {
			t.ctx.taskStack.Push(&OptimizeExpressionTask{ctx: t.ctx, expr: expr, prop: t.prop})
		} else {
			t.ctx.taskStack.Push(&OptimizeInputsTask{ctx: t.ctx, expr: expr, prop: t.prop})
		}
	}
	return nil
}

// OptimizeExpressionTask schedules every applicable transformation and
// implementation rule for a logical expression.
type OptimizeExpressionTask struct {
	ctx  *OptimizerContext
	expr *memo.GroupExpression
	prop memo.PropertyType
}

func (t *OptimizeExpressionTask) Execute() error {
	all := append(append([]rules.Rule{}, t.ctx.rulesManager.Transformation()...),
		t.ctx.rulesManager.Implementation()...)
	for _, rule := range all {
		if t.expr.HasRuleApplied(int(rule.ID())) {
			continue
		}
		b := rules.Bind(t.ctx.memo, t.expr, rule.Pattern())
		if b == nil || !rule.Check(b, t.ctx) {
			continue
		}
		t.ctx.taskStack.Push(&ApplyRuleTask{ctx: t.ctx, expr: t.expr, rule: rule, prop: t.prop})
	}
	return nil
}

// ApplyRuleTask fires one rule on one expression, memoizes the outputs
// into the same group and schedules their follow-up work. The rule is
// marked applied on the source expression so it never fires twice.
type ApplyRuleTask struct {
	ctx  *OptimizerContext
	expr *memo.GroupExpression
	rule rules.Rule
	prop memo.PropertyType
}

func (t *ApplyRuleTask) Execute() error {
	if t.expr.HasRuleApplied(int(t.rule.ID())) {
		return nil
	}
	b := rules.Bind(t.ctx.memo, t.expr, t.rule.Pattern())
	if b == nil || !t.rule.Check(b, t.ctx) {
		return nil
	}
	t.expr.MarkRuleApplied(int(t.rule.ID()))
	for _, op := range t.rule.Apply(b, t.ctx) {
		newExpr := t.ctx.memo.AddOperatorToGroup(op, t.expr.GroupID)
		if newExpr.IsLogical() {
			t.ctx.taskStack.Push(&OptimizeExpressionTask{ctx: t.ctx, expr: newExpr, prop: t.prop})
		} else {
			t.ctx.taskStack.Push(&OptimizeInputsTask{ctx: t.ctx, expr: newExpr, prop: t.prop})
		}
	}
	return nil
}

// OptimizeInputsTask costs a physical expression once every child group
// has a winner. A child group without any physical plan prunes this
// alternative silently.
type OptimizeInputsTask struct {
	ctx               *OptimizerContext
	expr              *memo.GroupExpression
	prop              memo.PropertyType
	childrenOptimized bool
}

func (t *OptimizeInputsTask) Execute() error {
	if !t.childrenOptimized {
		t.ctx.taskStack.Push(&OptimizeInputsTask{
			ctx: t.ctx, expr: t.expr, prop: t.prop, childrenOptimized: true})
		for _, cid := range t.expr.ChildGroupIDs {
			t.ctx.taskStack.Push(NewOptimizeGroupTask(t.ctx, cid, t.prop))
		}
		return nil
	}
	total := t.ctx.costModel.CalculateCost(t.expr)
	for _, cid := range t.expr.ChildGroupIDs {
		_, childCost, ok := t.ctx.memo.GetGroup(cid).Winner(t.prop)
		if !ok {
			return nil
		}
		total += childCost
	}
	group := t.ctx.memo.GetGroup(t.expr.GroupID)
	if group.RecordWinnerIfBetter(t.prop, total, t.expr) {
		common.ShPrintf(common.OPTIMIZER_TRACE, "winner: group %d cost %f %s\n",
			group.ID, total, t.expr.Op.Signature())
	}
	return nil
}
