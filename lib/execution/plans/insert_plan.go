package plans

import (
	"fmt"
	"strings"

	"github.com/ryogrid/VimanaDB/lib/planner/operators"
	"github.com/ryogrid/VimanaDB/lib/types"
)

type InsertPlanNode struct {
	*AbstractPlanNode
	Table   string
	Columns []string
	Rows    [][]types.Value
}

func NewInsertPlanNode(table string, columns []string, rows [][]types.Value) *InsertPlanNode {
	return &InsertPlanNode{NewAbstractPlanNode(operators.Insert, nil), table, columns, rows}
}

func (p *InsertPlanNode) Signature() string {
	return fmt.Sprintf("insert[%s|%s|%d rows]", p.Table, strings.Join(p.Columns, ";"), len(p.Rows))
}

func (p *InsertPlanNode) GetDebugStr() string {
	return fmt.Sprintf("Insert(%s, %d rows)", p.Table, len(p.Rows))
}
