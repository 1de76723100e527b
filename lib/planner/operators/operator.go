package operators

import "fmt"

// Operator is one node of a logical or physical plan tree. An operator
// exclusively owns its children; inside the memo children are detached
// and represented by group membership instead. Structural identity
// (Signature) covers kind and attributes but never children.
type Operator interface {
	GetOpType() OpType
	GetChildren() []Operator
	SetChildren(children []Operator)
	// Signature renders the operator kind and attributes in a stable,
	// unambiguous form. The memo combines it with resolved child group
	// ids to deduplicate structurally identical subtrees.
	Signature() string
}

type AbstractOperator struct {
	opType   OpType
	children []Operator
}

func NewAbstractOperator(opType OpType, children []Operator) *AbstractOperator {
	return &AbstractOperator{opType: opType, children: children}
}

func (a *AbstractOperator) GetOpType() OpType            { return a.opType }
func (a *AbstractOperator) GetChildren() []Operator      { return a.children }
func (a *AbstractOperator) SetChildren(children []Operator) { a.children = children }

// DummyGroupRefNode stands in for an already-memoized subtree when a rule
// emits a replacement operator tree: the memo resolves it straight to its
// group id instead of re-inserting anything.
type DummyGroupRefNode struct {
	*AbstractOperator
	GroupID int
}

func NewDummyGroupRef(groupID int) *DummyGroupRefNode {
	return &DummyGroupRefNode{NewAbstractOperator(DummyGroupRef, nil), groupID}
}

func (d *DummyGroupRefNode) Signature() string {
	return fmt.Sprintf("dummy[%d]", d.GroupID)
}
