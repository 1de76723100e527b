package memo

import (
	"fmt"

	"github.com/spaolacci/murmur3"

	"github.com/ryogrid/VimanaDB/lib/common"
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

const UnassignedGroupID = -1

// Memo stores the forest of equivalent plans explored during
// optimization. Expressions are deduplicated by a 64 bit hash over the
// operator signature and resolved child group ids, so firing the same
// rule sequence twice never grows the search space.
type Memo struct {
	groups []*Group
	dedup  map[uint64]*GroupExpression
}

func NewMemo() *Memo {
	return &Memo{dedup: make(map[uint64]*GroupExpression)}
}

func (m *Memo) GetGroup(id int) *Group {
	common.SH_Assert(id >= 0 && id < len(m.groups), fmt.Sprintf("group id %d out of range", id))
	return m.groups[id]
}

func (m *Memo) NumGroups() int { return len(m.groups) }

func exprSignature(op operators.Operator, childGroupIDs []int) uint64 {
	h := murmur3.New64()
	h.Write([]byte(op.Signature()))
	for _, id := range childGroupIDs {
		h.Write([]byte(fmt.Sprintf("|%d", id)))
	}
	return h.Sum64()
}

// AddOperatorToGroup memoizes op and its whole subtree bottom up. Child
// operators become their own groups first; a DummyGroupRefNode child
// resolves straight to the group it names. Pass UnassignedGroupID to let
// the memo pick (or reuse) a group for op itself.
//
// op is detached from its children on insertion. When a structurally
// identical expression is already memoized it is returned as is and no
// new group is created.
func (m *Memo) AddOperatorToGroup(op operators.Operator, targetGroupID int) *GroupExpression {
	if ref, ok := op.(*operators.DummyGroupRefNode); ok {
		common.SH_Assert(targetGroupID == UnassignedGroupID || targetGroupID == ref.GroupID,
			"dummy group ref may not be re-homed")
		group := m.GetGroup(ref.GroupID)
		common.SH_Assert(len(group.Exprs) > 0, "dummy group ref names an empty group")
		return group.Exprs[0]
	}

	children := op.GetChildren()
	childGroupIDs := make([]int, len(children))
	for i, child := range children {
		childGroupIDs[i] = m.AddOperatorToGroup(child, UnassignedGroupID).GroupID
	}
	op.SetChildren(nil)

	sig := exprSignature(op, childGroupIDs)
	if existing, ok := m.dedup[sig]; ok {
		return existing
	}

	ge := newGroupExpression(op, childGroupIDs, sig)
	var group *Group
	if targetGroupID == UnassignedGroupID {
		group = newGroup(len(m.groups))
		m.groups = append(m.groups, group)
	} else {
		group = m.GetGroup(targetGroupID)
	}
	ge.GroupID = group.ID
	group.Exprs = append(group.Exprs, ge)
	m.dedup[sig] = ge
	common.ShPrintf(common.OPTIMIZER_TRACE, "memo: group %d += %s\n", group.ID, op.Signature())
	return ge
}

// ReplaceGroupExpression discards every expression of the group and
// installs op as its sole content. The heuristic rewrite stages use this
// when a rule's output supersedes the matched expression outright.
//
// The rewrite output may be structurally identical to an expression
// already memoized elsewhere: two groups have converged. The dedup table
// keeps pointing at the first copy, and this group gets its own
// expression so it never ends up empty.
func (m *Memo) ReplaceGroupExpression(op operators.Operator, groupID int) *GroupExpression {
	group := m.GetGroup(groupID)
	for _, ge := range group.Exprs {
		if cur, ok := m.dedup[ge.sig]; ok && cur == ge {
			delete(m.dedup, ge.sig)
		}
	}
	group.Exprs = nil
	ge := m.AddOperatorToGroup(op, groupID)
	if ge.GroupID != groupID {
		local := newGroupExpression(ge.Op, ge.ChildGroupIDs, ge.sig)
		local.GroupID = groupID
		group.Exprs = append(group.Exprs, local)
		return local
	}
	return ge
}
