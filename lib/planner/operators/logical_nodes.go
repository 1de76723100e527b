package operators

import (
	"fmt"
	"strings"

	"github.com/ryogrid/VimanaDB/lib/catalog"
	"github.com/ryogrid/VimanaDB/lib/execution/expression"
	"github.com/ryogrid/VimanaDB/lib/types"
)

func exprSig(e expression.Expression) string {
	if e == nil {
		return "-"
	}
	return e.String()
}

// LogicalGetNode is the scan source of a table. Rewrite stages fold
// filter, sample and projection into it so the storage read can apply
// them batch by batch.
type LogicalGetNode struct {
	*AbstractOperator
	Table       string
	Alias       string
	Predicate   expression.Expression
	ProjectList []string
	SampleRate  int
}

func NewLogicalGet(table string, alias string) *LogicalGetNode {
	if alias == "" {
		alias = table
	}
	return &LogicalGetNode{
		AbstractOperator: NewAbstractOperator(LogicalGet, nil),
		Table:            table,
		Alias:            alias,
	}
}

func (o *LogicalGetNode) Signature() string {
	return fmt.Sprintf("logical_get[%s|%s|pred=%s|proj=%s|sample=%d]",
		o.Table, o.Alias, exprSig(o.Predicate), strings.Join(o.ProjectList, ";"), o.SampleRate)
}

type LogicalFilterNode struct {
	*AbstractOperator
	Predicate expression.Expression
}

func NewLogicalFilter(predicate expression.Expression, child Operator) *LogicalFilterNode {
	return &LogicalFilterNode{NewAbstractOperator(LogicalFilter, []Operator{child}), predicate}
}

func (o *LogicalFilterNode) Signature() string {
	return fmt.Sprintf("logical_filter[%s]", exprSig(o.Predicate))
}

type LogicalProjectNode struct {
	*AbstractOperator
	Exprs []expression.Expression
}

func NewLogicalProject(exprs []expression.Expression, child Operator) *LogicalProjectNode {
	return &LogicalProjectNode{NewAbstractOperator(LogicalProject, []Operator{child}), exprs}
}

func (o *LogicalProjectNode) Signature() string {
	parts := make([]string, len(o.Exprs))
	for i, e := range o.Exprs {
		parts[i] = e.String()
	}
	return fmt.Sprintf("logical_project[%s]", strings.Join(parts, ";"))
}

type JoinType int

const (
	InnerJoin JoinType = iota
	// LateralJoin evaluates its right side once per left row; the only
	// producer of lateral right sides here is per-row UDF invocation.
	LateralJoin
)

func (t JoinType) String() string {
	if t == LateralJoin {
		return "LATERAL"
	}
	return "INNER"
}

type LogicalJoinNode struct {
	*AbstractOperator
	JoinKind  JoinType
	Predicate expression.Expression
}

func NewLogicalJoin(kind JoinType, predicate expression.Expression, left Operator, right Operator) *LogicalJoinNode {
	return &LogicalJoinNode{NewAbstractOperator(LogicalJoin, []Operator{left, right}), kind, predicate}
}

func (o *LogicalJoinNode) Signature() string {
	return fmt.Sprintf("logical_join[%s|%s]", o.JoinKind.String(), exprSig(o.Predicate))
}

// LogicalFunctionScanNode produces rows by evaluating a UDF; as the right
// side of a lateral join it is fed the current left row.
type LogicalFunctionScanNode struct {
	*AbstractOperator
	FuncExpr *expression.FunctionExpression
}

func NewLogicalFunctionScan(funcExpr *expression.FunctionExpression) *LogicalFunctionScanNode {
	return &LogicalFunctionScanNode{NewAbstractOperator(LogicalFunctionScan, nil), funcExpr}
}

func (o *LogicalFunctionScanNode) Signature() string {
	return fmt.Sprintf("logical_function_scan[%s]", o.FuncExpr.String())
}

// LogicalApplyAndMergeNode is the linear-flow replacement of a lateral
// join against a function scan: evaluate the UDF per input batch and
// merge the output columns onto the stream.
type LogicalApplyAndMergeNode struct {
	*AbstractOperator
	FuncExpr *expression.FunctionExpression
}

func NewLogicalApplyAndMerge(funcExpr *expression.FunctionExpression, child Operator) *LogicalApplyAndMergeNode {
	return &LogicalApplyAndMergeNode{NewAbstractOperator(LogicalApplyAndMerge, []Operator{child}), funcExpr}
}

func (o *LogicalApplyAndMergeNode) Signature() string {
	return fmt.Sprintf("logical_apply_and_merge[%s]", o.FuncExpr.String())
}

type LogicalGroupByNode struct {
	*AbstractOperator
	Keys     []string
	AggTypes []AggregationType
	AggCols  []string
}

func NewLogicalGroupBy(keys []string, aggTypes []AggregationType, aggCols []string, child Operator) *LogicalGroupByNode {
	return &LogicalGroupByNode{NewAbstractOperator(LogicalGroupBy, []Operator{child}), keys, aggTypes, aggCols}
}

func (o *LogicalGroupByNode) Signature() string {
	aggs := make([]string, len(o.AggTypes))
	for i := range o.AggTypes {
		aggs[i] = o.AggTypes[i].String() + "(" + o.AggCols[i] + ")"
	}
	return fmt.Sprintf("logical_group_by[%s|%s]", strings.Join(o.Keys, ";"), strings.Join(aggs, ";"))
}

type OrderByKey struct {
	Expr  expression.Expression
	Order OrderbyType
}

type LogicalOrderByNode struct {
	*AbstractOperator
	Keys []OrderByKey
}

func NewLogicalOrderBy(keys []OrderByKey, child Operator) *LogicalOrderByNode {
	return &LogicalOrderByNode{NewAbstractOperator(LogicalOrderBy, []Operator{child}), keys}
}

func (o *LogicalOrderByNode) Signature() string {
	parts := make([]string, len(o.Keys))
	for i, k := range o.Keys {
		parts[i] = k.Expr.String() + " " + k.Order.String()
	}
	return fmt.Sprintf("logical_order_by[%s]", strings.Join(parts, ";"))
}

type LogicalLimitNode struct {
	*AbstractOperator
	Limit  uint64
	Offset uint64
}

func NewLogicalLimit(limit uint64, offset uint64, child Operator) *LogicalLimitNode {
	return &LogicalLimitNode{NewAbstractOperator(LogicalLimit, []Operator{child}), limit, offset}
}

func (o *LogicalLimitNode) Signature() string {
	return fmt.Sprintf("logical_limit[%d|%d]", o.Limit, o.Offset)
}

// LogicalSampleNode keeps every Rate-th row of its input.
type LogicalSampleNode struct {
	*AbstractOperator
	Rate int
}

func NewLogicalSample(rate int, child Operator) *LogicalSampleNode {
	return &LogicalSampleNode{NewAbstractOperator(LogicalSample, []Operator{child}), rate}
}

func (o *LogicalSampleNode) Signature() string {
	return fmt.Sprintf("logical_sample[%d]", o.Rate)
}

type LogicalUnionNode struct {
	*AbstractOperator
}

func NewLogicalUnion(children []Operator) *LogicalUnionNode {
	return &LogicalUnionNode{NewAbstractOperator(LogicalUnion, children)}
}

func (o *LogicalUnionNode) Signature() string { return "logical_union" }

type LogicalInsertNode struct {
	*AbstractOperator
	Table   string
	Columns []string
	Rows    [][]types.Value
}

func NewLogicalInsert(table string, columns []string, rows [][]types.Value) *LogicalInsertNode {
	return &LogicalInsertNode{NewAbstractOperator(LogicalInsert, nil), table, columns, rows}
}

func (o *LogicalInsertNode) Signature() string {
	return fmt.Sprintf("logical_insert[%s|%s|%d rows]", o.Table, strings.Join(o.Columns, ";"), len(o.Rows))
}

type LogicalDeleteNode struct {
	*AbstractOperator
	Table     string
	Predicate expression.Expression
}

func NewLogicalDelete(table string, predicate expression.Expression) *LogicalDeleteNode {
	return &LogicalDeleteNode{NewAbstractOperator(LogicalDelete, nil), table, predicate}
}

func (o *LogicalDeleteNode) Signature() string {
	return fmt.Sprintf("logical_delete[%s|%s]", o.Table, exprSig(o.Predicate))
}

type LogicalCreateNode struct {
	*AbstractOperator
	Table   string
	Columns []catalog.ColumnDef
}

func NewLogicalCreate(table string, columns []catalog.ColumnDef) *LogicalCreateNode {
	return &LogicalCreateNode{NewAbstractOperator(LogicalCreate, nil), table, columns}
}

func (o *LogicalCreateNode) Signature() string {
	parts := make([]string, len(o.Columns))
	for i, cd := range o.Columns {
		parts[i] = cd.Name + ":" + cd.Type.String()
	}
	return fmt.Sprintf("logical_create[%s|%s]", o.Table, strings.Join(parts, ";"))
}

type LogicalCreateIndexNode struct {
	*AbstractOperator
	IndexName     string
	Table         string
	FeatureColumn string
	FuncExpr      *expression.FunctionExpression
	Dim           int
}

func NewLogicalCreateIndex(indexName string, table string, featureColumn string,
	funcExpr *expression.FunctionExpression, dim int) *LogicalCreateIndexNode {
	return &LogicalCreateIndexNode{NewAbstractOperator(LogicalCreateIndex, nil),
		indexName, table, featureColumn, funcExpr, dim}
}

func (o *LogicalCreateIndexNode) Signature() string {
	return fmt.Sprintf("logical_create_index[%s|%s|%s|%s|%d]",
		o.IndexName, o.Table, o.FeatureColumn, o.FuncExpr.String(), o.Dim)
}

type LogicalCreateMaterializedViewNode struct {
	*AbstractOperator
	ViewName string
	Columns  []string
}

func NewLogicalCreateMaterializedView(viewName string, columns []string, child Operator) *LogicalCreateMaterializedViewNode {
	return &LogicalCreateMaterializedViewNode{
		NewAbstractOperator(LogicalCreateMaterializedView, []Operator{child}), viewName, columns}
}

func (o *LogicalCreateMaterializedViewNode) Signature() string {
	return fmt.Sprintf("logical_create_mat_view[%s|%s]", o.ViewName, strings.Join(o.Columns, ";"))
}

// LogicalVectorIndexScanNode is only ever produced by the rewrite that
// recognizes a similarity order-by plus limit over an indexed feature.
type LogicalVectorIndexScanNode struct {
	*AbstractOperator
	IndexName string
	Limit     uint64
	QueryExpr *expression.FunctionExpression
}

func NewLogicalVectorIndexScan(indexName string, limit uint64,
	queryExpr *expression.FunctionExpression, child Operator) *LogicalVectorIndexScanNode {
	return &LogicalVectorIndexScanNode{NewAbstractOperator(LogicalVectorIndexScan, []Operator{child}),
		indexName, limit, queryExpr}
}

func (o *LogicalVectorIndexScanNode) Signature() string {
	return fmt.Sprintf("logical_vector_index_scan[%s|%d|%s]", o.IndexName, o.Limit, o.QueryExpr.String())
}

type LogicalExplainNode struct {
	*AbstractOperator
}

func NewLogicalExplain(child Operator) *LogicalExplainNode {
	return &LogicalExplainNode{NewAbstractOperator(LogicalExplain, []Operator{child})}
}

func (o *LogicalExplainNode) Signature() string { return "logical_explain" }
