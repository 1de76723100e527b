package rules

import (
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// InnerJoinCommutativity adds the child-swapped form of an inner join to
// its group. Applying it to the swapped form regenerates the original,
// which the memo deduplicates away.
type InnerJoinCommutativity struct{}

func (r *InnerJoinCommutativity) ID() RuleType { return RuleInnerJoinCommutativity }

func (r *InnerJoinCommutativity) Pattern() *Pattern {
	return NewPattern(operators.LogicalJoin, AnyPattern(), AnyPattern())
}

func (r *InnerJoinCommutativity) Check(b *Binding, ctx Context) bool {
	return b.Expr.Op.(*operators.LogicalJoinNode).JoinKind == operators.InnerJoin
}

func (r *InnerJoinCommutativity) Apply(b *Binding, ctx Context) []operators.Operator {
	join := b.Expr.Op.(*operators.LogicalJoinNode)
	return []operators.Operator{
		operators.NewLogicalJoin(operators.InnerJoin, join.Predicate,
			b.Children[1].GroupRef(), b.Children[0].GroupRef()),
	}
}
