package plans

import (
	"fmt"

	"github.com/ryogrid/VimanaDB/lib/execution/expression"
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// VectorIndexScanPlanNode answers a top-k similarity query from a
// prebuilt vector index and joins the k hits back against the child's
// rows by row id, preserving rank order.
type VectorIndexScanPlanNode struct {
	*AbstractPlanNode
	IndexName string
	Limit     uint64
	QueryExpr *expression.FunctionExpression
}

func NewVectorIndexScanPlanNode(indexName string, limit uint64,
	queryExpr *expression.FunctionExpression, child Plan) *VectorIndexScanPlanNode {
	var children []operators.Operator
	if child != nil {
		children = []operators.Operator{child}
	}
	return &VectorIndexScanPlanNode{NewAbstractPlanNode(operators.VectorIndexScan, children),
		indexName, limit, queryExpr}
}

func (p *VectorIndexScanPlanNode) Signature() string {
	return fmt.Sprintf("vector_index_scan[%s|%d|%s]", p.IndexName, p.Limit, p.QueryExpr.String())
}

func (p *VectorIndexScanPlanNode) GetDebugStr() string {
	return fmt.Sprintf("VectorIndexScan(%s, k=%d)", p.IndexName, p.Limit)
}
