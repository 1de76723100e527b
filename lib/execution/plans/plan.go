package plans

import (
	"strings"

	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// Plan is a physical plan node. It doubles as a memo operator so the
// cost-based search can store physical alternatives next to the logical
// expressions they implement.
type Plan interface {
	operators.Operator
	GetDebugStr() string
}

type AbstractPlanNode struct {
	*operators.AbstractOperator
}

func NewAbstractPlanNode(opType operators.OpType, children []operators.Operator) *AbstractPlanNode {
	return &AbstractPlanNode{operators.NewAbstractOperator(opType, children)}
}

func (p *AbstractPlanNode) GetChildAt(idx int) Plan {
	return p.GetChildren()[idx].(Plan)
}

// DebugTreeString renders the plan tree one node per line, children
// indented below their parent. EXPLAIN output is built from this.
func DebugTreeString(p Plan) string {
	var sb strings.Builder
	var render func(node Plan, depth int)
	render = func(node Plan, depth int) {
		sb.WriteString(strings.Repeat(" ", depth*4))
		sb.WriteString("|__ ")
		sb.WriteString(node.GetDebugStr())
		sb.WriteString("\n")
		for _, c := range node.GetChildren() {
			render(c.(Plan), depth+1)
		}
	}
	render(p, 0)
	return sb.String()
}
