package plans

import (
	"fmt"
	"strings"

	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// OrderByPlanNode is blocking: the input is fully drained, sorted stably
// by the keys in order, and emitted as a single batch.
type OrderByPlanNode struct {
	*AbstractPlanNode
	Keys []operators.OrderByKey
}

func NewOrderByPlanNode(keys []operators.OrderByKey, child Plan) *OrderByPlanNode {
	var children []operators.Operator
	if child != nil {
		children = []operators.Operator{child}
	}
	return &OrderByPlanNode{NewAbstractPlanNode(operators.OrderBy, children), keys}
}

func (p *OrderByPlanNode) keyStrs() []string {
	parts := make([]string, len(p.Keys))
	for i, k := range p.Keys {
		parts[i] = k.Expr.String() + " " + k.Order.String()
	}
	return parts
}

func (p *OrderByPlanNode) Signature() string {
	return fmt.Sprintf("order_by[%s]", strings.Join(p.keyStrs(), ";"))
}

func (p *OrderByPlanNode) GetDebugStr() string {
	return fmt.Sprintf("OrderBy(%s)", strings.Join(p.keyStrs(), ", "))
}
