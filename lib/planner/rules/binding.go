package rules

import (
	"github.com/ryogrid/VimanaDB/lib/planner/memo"
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// Binding is a successful match of a pattern against the memo. Expr is
// nil at wildcard leaves; GroupID is always set, so rules can reference
// any matched position through GroupRef when building replacements.
type Binding struct {
	Expr     *memo.GroupExpression
	GroupID  int
	Children []*Binding
}

func (b *Binding) GroupRef() *operators.DummyGroupRefNode {
	return operators.NewDummyGroupRef(b.GroupID)
}

// Bind matches pattern against ge. Child patterns bind against the first
// logical expression of the child group that matches; nil means no match.
func Bind(m *memo.Memo, ge *memo.GroupExpression, pattern *Pattern) *Binding {
	if pattern.MatchAny {
		return &Binding{Expr: ge, GroupID: ge.GroupID}
	}
	if ge.Op.GetOpType() != pattern.OpType {
		return nil
	}
	b := &Binding{Expr: ge, GroupID: ge.GroupID}
	if len(pattern.Children) == 0 {
		// Unconstrained inputs: expose every child group as a wildcard.
		for _, gid := range ge.ChildGroupIDs {
			b.Children = append(b.Children, &Binding{GroupID: gid})
		}
		return b
	}
	if len(pattern.Children) != len(ge.ChildGroupIDs) {
		return nil
	}
	for i, childPattern := range pattern.Children {
		gid := ge.ChildGroupIDs[i]
		if childPattern.MatchAny {
			b.Children = append(b.Children, &Binding{GroupID: gid})
			continue
		}
		var matched *Binding
		for _, childExpr := range m.GetGroup(gid).LogicalExprs() {
			if cb := Bind(m, childExpr, childPattern); cb != nil {
				matched = cb
				break
			}
		}
		if matched == nil {
			return nil
		}
		b.Children = append(b.Children, matched)
	}
	return b
}
