package plans

import (
	"fmt"
	"strings"

	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// GroupByPlanNode is a blocking aggregation: the whole input is drained
// before the single output batch is produced.
type GroupByPlanNode struct {
	*AbstractPlanNode
	Keys     []string
	AggTypes []operators.AggregationType
	AggCols  []string
}

func NewGroupByPlanNode(keys []string, aggTypes []operators.AggregationType,
	aggCols []string, child Plan) *GroupByPlanNode {
	var children []operators.Operator
	if child != nil {
		children = []operators.Operator{child}
	}
	return &GroupByPlanNode{NewAbstractPlanNode(operators.GroupBy, children), keys, aggTypes, aggCols}
}

func (p *GroupByPlanNode) aggStrs() []string {
	aggs := make([]string, len(p.AggTypes))
	for i := range p.AggTypes {
		aggs[i] = p.AggTypes[i].String() + "(" + p.AggCols[i] + ")"
	}
	return aggs
}

func (p *GroupByPlanNode) Signature() string {
	return fmt.Sprintf("group_by[%s|%s]", strings.Join(p.Keys, ";"), strings.Join(p.aggStrs(), ";"))
}

func (p *GroupByPlanNode) GetDebugStr() string {
	return fmt.Sprintf("GroupBy(keys=[%s] aggs=[%s])",
		strings.Join(p.Keys, ", "), strings.Join(p.aggStrs(), ", "))
}
