package memo

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// GroupExpression is one memoized operator: the operator detached from
// its children, plus the ids of the groups the children live in.
type GroupExpression struct {
	Op            operators.Operator
	GroupID       int
	ChildGroupIDs []int

	sig          uint64
	appliedRules mapset.Set[int]
}

func newGroupExpression(op operators.Operator, childGroupIDs []int, sig uint64) *GroupExpression {
	return &GroupExpression{
		Op:            op,
		GroupID:       UnassignedGroupID,
		ChildGroupIDs: childGroupIDs,
		sig:           sig,
		appliedRules:  mapset.NewSet[int](),
	}
}

func (ge *GroupExpression) IsLogical() bool {
	return ge.Op.GetOpType().IsLogical()
}

// HasRuleApplied reports whether the rule was already fired on this
// expression. The search never fires a rule twice on the same expression.
func (ge *GroupExpression) HasRuleApplied(ruleID int) bool {
	return ge.appliedRules.Contains(ruleID)
}

func (ge *GroupExpression) MarkRuleApplied(ruleID int) {
	ge.appliedRules.Add(ruleID)
}
