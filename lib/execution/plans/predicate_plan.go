package plans

import (
	"fmt"

	"github.com/ryogrid/VimanaDB/lib/execution/expression"
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// PredicatePlanNode filters each input batch row-wise. Batch boundaries
// of the input stream are preserved, empty batches included.
type PredicatePlanNode struct {
	*AbstractPlanNode
	Predicate expression.Expression
}

func NewPredicatePlanNode(predicate expression.Expression, child Plan) *PredicatePlanNode {
	var children []operators.Operator
	if child != nil {
		children = []operators.Operator{child}
	}
	return &PredicatePlanNode{NewAbstractPlanNode(operators.Predicate, children), predicate}
}

func (p *PredicatePlanNode) Signature() string {
	return fmt.Sprintf("predicate[%s]", p.Predicate.String())
}

func (p *PredicatePlanNode) GetDebugStr() string {
	return fmt.Sprintf("Predicate(%s)", p.Predicate.String())
}
