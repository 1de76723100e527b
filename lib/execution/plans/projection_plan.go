package plans

import (
	"fmt"
	"strings"

	"github.com/ryogrid/VimanaDB/lib/execution/expression"
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

type ProjectionPlanNode struct {
	*AbstractPlanNode
	Exprs []expression.Expression
}

func NewProjectionPlanNode(exprs []expression.Expression, child Plan) *ProjectionPlanNode {
	var children []operators.Operator
	if child != nil {
		children = []operators.Operator{child}
	}
	return &ProjectionPlanNode{NewAbstractPlanNode(operators.Projection, children), exprs}
}

func (p *ProjectionPlanNode) exprStrs() []string {
	parts := make([]string, len(p.Exprs))
	for i, e := range p.Exprs {
		parts[i] = e.String()
	}
	return parts
}

func (p *ProjectionPlanNode) Signature() string {
	return fmt.Sprintf("projection[%s]", strings.Join(p.exprStrs(), ";"))
}

func (p *ProjectionPlanNode) GetDebugStr() string {
	return fmt.Sprintf("Projection(%s)", strings.Join(p.exprStrs(), ", "))
}
