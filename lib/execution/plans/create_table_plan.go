package plans

import (
	"fmt"
	"strings"

	"github.com/ryogrid/VimanaDB/lib/catalog"
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

type CreateTablePlanNode struct {
	*AbstractPlanNode
	Table   string
	Columns []catalog.ColumnDef
}

func NewCreateTablePlanNode(table string, columns []catalog.ColumnDef) *CreateTablePlanNode {
	return &CreateTablePlanNode{NewAbstractPlanNode(operators.CreateTable, nil), table, columns}
}

func (p *CreateTablePlanNode) Signature() string {
	parts := make([]string, len(p.Columns))
	for i, cd := range p.Columns {
		parts[i] = cd.Name + ":" + cd.Type.String()
	}
	return fmt.Sprintf("create_table[%s|%s]", p.Table, strings.Join(parts, ";"))
}

func (p *CreateTablePlanNode) GetDebugStr() string {
	return fmt.Sprintf("CreateTable(%s)", p.Table)
}
