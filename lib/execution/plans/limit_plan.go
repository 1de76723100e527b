package plans

import (
	"fmt"

	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

type LimitPlanNode struct {
	*AbstractPlanNode
	Limit  uint64
	Offset uint64
}

func NewLimitPlanNode(limit uint64, offset uint64, child Plan) *LimitPlanNode {
	var children []operators.Operator
	if child != nil {
		children = []operators.Operator{child}
	}
	return &LimitPlanNode{NewAbstractPlanNode(operators.Limit, children), limit, offset}
}

func (p *LimitPlanNode) Signature() string {
	return fmt.Sprintf("limit[%d|%d]", p.Limit, p.Offset)
}

func (p *LimitPlanNode) GetDebugStr() string {
	return fmt.Sprintf("Limit(%d offset %d)", p.Limit, p.Offset)
}
