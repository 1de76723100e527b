package plans

import (
	"fmt"

	"github.com/ryogrid/VimanaDB/lib/execution/expression"
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// DeletePlanNode removes the rows produced by its child from the table.
// The child scan carries the predicate; this node only needs the row ids
// surfacing in the child's output.
type DeletePlanNode struct {
	*AbstractPlanNode
	Table     string
	Predicate expression.Expression
}

func NewDeletePlanNode(table string, predicate expression.Expression, child Plan) *DeletePlanNode {
	var children []operators.Operator
	if child != nil {
		children = []operators.Operator{child}
	}
	return &DeletePlanNode{NewAbstractPlanNode(operators.Delete, children), table, predicate}
}

func (p *DeletePlanNode) Signature() string {
	pred := "-"
	if p.Predicate != nil {
		pred = p.Predicate.String()
	}
	return fmt.Sprintf("delete[%s|%s]", p.Table, pred)
}

func (p *DeletePlanNode) GetDebugStr() string {
	return fmt.Sprintf("Delete(%s)", p.Table)
}
