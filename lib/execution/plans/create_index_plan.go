package plans

import (
	"fmt"

	"github.com/ryogrid/VimanaDB/lib/execution/expression"
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// CreateIndexPlanNode builds a vector index: the feature function runs
// over every row of the table and the resulting embeddings, keyed by row
// id, go into a flat index file registered in the catalog.
type CreateIndexPlanNode struct {
	*AbstractPlanNode
	IndexName     string
	Table         string
	FeatureColumn string
	FuncExpr      *expression.FunctionExpression
	Dim           int
}

func NewCreateIndexPlanNode(indexName string, table string, featureColumn string,
	funcExpr *expression.FunctionExpression, dim int) *CreateIndexPlanNode {
	return &CreateIndexPlanNode{NewAbstractPlanNode(operators.CreateIndex, nil),
		indexName, table, featureColumn, funcExpr, dim}
}

func (p *CreateIndexPlanNode) Signature() string {
	return fmt.Sprintf("create_index[%s|%s|%s|%s|%d]",
		p.IndexName, p.Table, p.FeatureColumn, p.FuncExpr.String(), p.Dim)
}

func (p *CreateIndexPlanNode) GetDebugStr() string {
	return fmt.Sprintf("CreateIndex(%s ON %s(%s))", p.IndexName, p.Table, p.FeatureColumn)
}
