package rules

import (
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// Pattern describes the operator shape a rule matches. A pattern with no
// children matches a node of the given kind regardless of its inputs;
// listed children must match positionally. AnyPattern matches any group
// without descending into it.
type Pattern struct {
	OpType   operators.OpType
	Children []*Pattern
	MatchAny bool
}

func NewPattern(opType operators.OpType, children ...*Pattern) *Pattern {
	return &Pattern{OpType: opType, Children: children}
}

func AnyPattern() *Pattern {
	return &Pattern{MatchAny: true}
}
