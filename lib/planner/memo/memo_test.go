package memo

import (
	"testing"

	"github.com/ryogrid/VimanaDB/lib/execution/expression"
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
	testing_assert "github.com/ryogrid/VimanaDB/lib/testing/testing_assert"
	"github.com/ryogrid/VimanaDB/lib/types"
)

func idPredicate(val int64) expression.Expression {
	return expression.NewComparison(
		expression.NewColumnValue("v.id"),
		expression.NewConstantValue(types.NewInteger(val)),
		expression.Equal)
}

func TestMemoDeduplicatesIdenticalSubtrees(t *testing.T) {
	m := NewMemo()

	tree1 := operators.NewLogicalFilter(idPredicate(1), operators.NewLogicalGet("videos", "v"))
	tree2 := operators.NewLogicalFilter(idPredicate(1), operators.NewLogicalGet("videos", "v"))

	e1 := m.AddOperatorToGroup(tree1, UnassignedGroupID)
	before := m.NumGroups()
	e2 := m.AddOperatorToGroup(tree2, UnassignedGroupID)

	testing_assert.Assert(t, e1 == e2, "identical trees should memoize to the same expression")
	testing_assert.Equals(t, before, m.NumGroups())
}

func TestMemoSeparatesDifferentAttributes(t *testing.T) {
	m := NewMemo()

	e1 := m.AddOperatorToGroup(
		operators.NewLogicalFilter(idPredicate(1), operators.NewLogicalGet("videos", "v")),
		UnassignedGroupID)
	e2 := m.AddOperatorToGroup(
		operators.NewLogicalFilter(idPredicate(2), operators.NewLogicalGet("videos", "v")),
		UnassignedGroupID)

	testing_assert.Assert(t, e1 != e2, "different predicates must not collide")
	testing_assert.Assert(t, e1.GroupID != e2.GroupID, "different predicates must get their own groups")
	// The shared scan subtree lands in one group.
	testing_assert.Equals(t, e1.ChildGroupIDs[0], e2.ChildGroupIDs[0])
}

func TestMemoDummyGroupRefResolvesWithoutInsertion(t *testing.T) {
	m := NewMemo()
	scan := m.AddOperatorToGroup(operators.NewLogicalGet("videos", "v"), UnassignedGroupID)

	filter := operators.NewLogicalFilter(idPredicate(1), operators.NewDummyGroupRef(scan.GroupID))
	e := m.AddOperatorToGroup(filter, UnassignedGroupID)

	testing_assert.Equals(t, scan.GroupID, e.ChildGroupIDs[0])
}

func TestReplaceGroupExpressionDiscardsOldContent(t *testing.T) {
	m := NewMemo()
	e := m.AddOperatorToGroup(
		operators.NewLogicalFilter(idPredicate(1), operators.NewLogicalGet("videos", "v")),
		UnassignedGroupID)
	gid := e.GroupID

	replacement := operators.NewLogicalGet("videos", "v")
	replacement.Predicate = idPredicate(1)
	m.ReplaceGroupExpression(replacement, gid)

	group := m.GetGroup(gid)
	testing_assert.Equals(t, 1, len(group.Exprs))
	testing_assert.Equals(t, operators.LogicalGet, group.Exprs[0].Op.GetOpType())
}

func TestReplaceGroupExpressionSurvivesConvergenceWithAnotherGroup(t *testing.T) {
	m := NewMemo()

	// A scan with the predicate already embedded lives in its own group.
	embedded := operators.NewLogicalGet("videos", "v")
	embedded.Predicate = idPredicate(1)
	existing := m.AddOperatorToGroup(embedded, UnassignedGroupID)

	// A structurally equivalent filter-over-scan group rewrites into the
	// same embedded form.
	filterExpr := m.AddOperatorToGroup(
		operators.NewLogicalFilter(idPredicate(1), operators.NewLogicalGet("videos", "v")),
		UnassignedGroupID)
	filterGID := filterExpr.GroupID
	testing_assert.Assert(t, filterGID != existing.GroupID, "setup needs two distinct groups")

	replacement := operators.NewLogicalGet("videos", "v")
	replacement.Predicate = idPredicate(1)
	got := m.ReplaceGroupExpression(replacement, filterGID)

	testing_assert.Equals(t, filterGID, got.GroupID)
	testing_assert.Equals(t, 1, len(m.GetGroup(filterGID).Exprs))
	testing_assert.Equals(t, 1, len(m.GetGroup(existing.GroupID).Exprs))

	// Dedup still points at the first copy.
	again := m.AddOperatorToGroup(func() operators.Operator {
		g := operators.NewLogicalGet("videos", "v")
		g.Predicate = idPredicate(1)
		return g
	}(), UnassignedGroupID)
	testing_assert.Assert(t, again == existing, "dedup entry of the first group must survive")
}

func TestWinnerRatchetKeepsStrictlyCheaperPlans(t *testing.T) {
	m := NewMemo()
	ga := m.AddOperatorToGroup(operators.NewLogicalGet("a", "a"), UnassignedGroupID)
	gb := m.AddOperatorToGroup(operators.NewLogicalGet("b", "b"), UnassignedGroupID)
	gc := m.AddOperatorToGroup(operators.NewLogicalGet("c", "c"), UnassignedGroupID)
	group := m.GetGroup(ga.GroupID)

	testing_assert.Assert(t, group.RecordWinnerIfBetter(PropertyDefault, 10.0, ga), "first candidate must win")
	testing_assert.Assert(t, group.RecordWinnerIfBetter(PropertyDefault, 7.0, gb), "cheaper candidate must win")
	testing_assert.Assert(t, !group.RecordWinnerIfBetter(PropertyDefault, 9.0, gc), "more expensive candidate must lose")
	testing_assert.Assert(t, !group.RecordWinnerIfBetter(PropertyDefault, 7.0, gc), "equal cost must keep the incumbent")

	winner, cost, ok := group.Winner(PropertyDefault)
	testing_assert.Assert(t, ok, "group should have a winner")
	testing_assert.Equals(t, 7.0, cost)
	testing_assert.Assert(t, winner == gb, "winner should be the cheapest expression")
}
