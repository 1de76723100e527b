package plans

import (
	"fmt"

	"github.com/ryogrid/VimanaDB/lib/execution/expression"
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// ApplyAndMergePlanNode runs a UDF over each input batch and merges the
// UDF output columns onto the batch. One input batch yields exactly one
// output batch.
type ApplyAndMergePlanNode struct {
	*AbstractPlanNode
	FuncExpr *expression.FunctionExpression
}

func NewApplyAndMergePlanNode(funcExpr *expression.FunctionExpression, child Plan) *ApplyAndMergePlanNode {
	var children []operators.Operator
	if child != nil {
		children = []operators.Operator{child}
	}
	return &ApplyAndMergePlanNode{NewAbstractPlanNode(operators.ApplyAndMerge, children), funcExpr}
}

func (p *ApplyAndMergePlanNode) Signature() string {
	return fmt.Sprintf("apply_and_merge[%s]", p.FuncExpr.String())
}

func (p *ApplyAndMergePlanNode) GetDebugStr() string {
	return fmt.Sprintf("ApplyAndMerge(%s)", p.FuncExpr.String())
}
