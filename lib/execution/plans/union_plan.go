package plans

import (
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// UnionPlanNode concatenates its children's streams in order (UNION ALL
// semantics, no dedup).
type UnionPlanNode struct {
	*AbstractPlanNode
}

func NewUnionPlanNode(children []Plan) *UnionPlanNode {
	var ops []operators.Operator
	for _, c := range children {
		ops = append(ops, c)
	}
	return &UnionPlanNode{NewAbstractPlanNode(operators.Union, ops)}
}

func (p *UnionPlanNode) Signature() string { return "union" }

func (p *UnionPlanNode) GetDebugStr() string { return "Union" }
