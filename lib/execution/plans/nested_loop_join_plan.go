package plans

import (
	"fmt"

	"github.com/ryogrid/VimanaDB/lib/execution/expression"
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// NestedLoopJoinPlanNode is the fallback inner join for predicates a
// hash join cannot implement. A nil predicate yields the cross product.
type NestedLoopJoinPlanNode struct {
	*AbstractPlanNode
	Predicate expression.Expression
}

func NewNestedLoopJoinPlanNode(predicate expression.Expression, left Plan, right Plan) *NestedLoopJoinPlanNode {
	var children []operators.Operator
	if left != nil && right != nil {
		children = []operators.Operator{left, right}
	}
	return &NestedLoopJoinPlanNode{NewAbstractPlanNode(operators.NestedLoopJoin, children), predicate}
}

func (p *NestedLoopJoinPlanNode) Signature() string {
	pred := "-"
	if p.Predicate != nil {
		pred = p.Predicate.String()
	}
	return fmt.Sprintf("nested_loop_join[%s]", pred)
}

func (p *NestedLoopJoinPlanNode) GetDebugStr() string {
	if p.Predicate == nil {
		return "NestedLoopJoin(cross)"
	}
	return fmt.Sprintf("NestedLoopJoin(%s)", p.Predicate.String())
}
