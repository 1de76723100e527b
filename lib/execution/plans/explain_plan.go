package plans

import (
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// ExplainPlanNode renders its child plan as text instead of running it.
// The execution engine never builds executors for the subtree.
type ExplainPlanNode struct {
	*AbstractPlanNode
}

func NewExplainPlanNode(child Plan) *ExplainPlanNode {
	var children []operators.Operator
	if child != nil {
		children = []operators.Operator{child}
	}
	return &ExplainPlanNode{NewAbstractPlanNode(operators.Explain, children)}
}

func (p *ExplainPlanNode) Signature() string { return "explain" }

func (p *ExplainPlanNode) GetDebugStr() string { return "Explain" }
