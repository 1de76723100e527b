package plans

import (
	"fmt"
	"strings"

	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// HashJoinPlanNode implements an inner equi-join: the left input is
// built into a hash table keyed on LeftKeys, the right input is probed
// batch by batch with RightKeys.
type HashJoinPlanNode struct {
	*AbstractPlanNode
	LeftKeys  []string
	RightKeys []string
}

func NewHashJoinPlanNode(leftKeys []string, rightKeys []string, left Plan, right Plan) *HashJoinPlanNode {
	var children []operators.Operator
	if left != nil && right != nil {
		children = []operators.Operator{left, right}
	}
	return &HashJoinPlanNode{NewAbstractPlanNode(operators.HashJoin, children), leftKeys, rightKeys}
}

func (p *HashJoinPlanNode) Signature() string {
	return fmt.Sprintf("hash_join[%s|%s]", strings.Join(p.LeftKeys, ";"), strings.Join(p.RightKeys, ";"))
}

func (p *HashJoinPlanNode) GetDebugStr() string {
	pairs := make([]string, len(p.LeftKeys))
	for i := range p.LeftKeys {
		pairs[i] = p.LeftKeys[i] + "=" + p.RightKeys[i]
	}
	return fmt.Sprintf("HashJoin(%s)", strings.Join(pairs, " AND "))
}
