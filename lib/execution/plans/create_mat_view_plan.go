package plans

import (
	"fmt"
	"strings"

	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// CreateMaterializedViewPlanNode drains its child and writes the result
// into a new table carrying the view's name.
type CreateMaterializedViewPlanNode struct {
	*AbstractPlanNode
	ViewName string
	Columns  []string
}

func NewCreateMaterializedViewPlanNode(viewName string, columns []string, child Plan) *CreateMaterializedViewPlanNode {
	var children []operators.Operator
	if child != nil {
		children = []operators.Operator{child}
	}
	return &CreateMaterializedViewPlanNode{
		NewAbstractPlanNode(operators.CreateMaterializedView, children), viewName, columns}
}

func (p *CreateMaterializedViewPlanNode) Signature() string {
	return fmt.Sprintf("create_mat_view[%s|%s]", p.ViewName, strings.Join(p.Columns, ";"))
}

func (p *CreateMaterializedViewPlanNode) GetDebugStr() string {
	return fmt.Sprintf("CreateMaterializedView(%s)", p.ViewName)
}
