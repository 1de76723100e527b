package plans

import (
	"fmt"

	"github.com/ryogrid/VimanaDB/lib/execution/expression"
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// FunctionScanPlanNode produces rows from a UDF evaluated over its
// input. It only appears when a lateral function source survives to the
// physical plan without being folded into a linear flow.
type FunctionScanPlanNode struct {
	*AbstractPlanNode
	FuncExpr *expression.FunctionExpression
}

func NewFunctionScanPlanNode(funcExpr *expression.FunctionExpression, child Plan) *FunctionScanPlanNode {
	var children []operators.Operator
	if child != nil {
		children = []operators.Operator{child}
	}
	return &FunctionScanPlanNode{NewAbstractPlanNode(operators.FunctionScan, children), funcExpr}
}

func (p *FunctionScanPlanNode) Signature() string {
	return fmt.Sprintf("function_scan[%s]", p.FuncExpr.String())
}

func (p *FunctionScanPlanNode) GetDebugStr() string {
	return fmt.Sprintf("FunctionScan(%s)", p.FuncExpr.String())
}
