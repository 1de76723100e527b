package rules

import (
	"github.com/ryogrid/VimanaDB/lib/common"
	"github.com/ryogrid/VimanaDB/lib/execution/expression"
	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// childRefs turns every child binding into a group reference so the
// physical operator lands in the memo with the same inputs as the
// logical expression it implements.
func childRefs(b *Binding) []operators.Operator {
	if len(b.Children) == 0 {
		return nil
	}
	refs := make([]operators.Operator, len(b.Children))
	for i, c := range b.Children {
		refs[i] = c.GroupRef()
	}
	return refs
}

type GetToSeqScan struct{}

func (r *GetToSeqScan) ID() RuleType       { return RuleGetToSeqScan }
func (r *GetToSeqScan) Pattern() *Pattern  { return NewPattern(operators.LogicalGet) }
func (r *GetToSeqScan) Check(b *Binding, ctx Context) bool { return true }

func (r *GetToSeqScan) Apply(b *Binding, ctx Context) []operators.Operator {
	get := b.Expr.Op.(*operators.LogicalGetNode)
	return []operators.Operator{
		plans.NewSeqScanPlanNode(get.Table, get.Alias, get.Predicate, get.ProjectList, get.SampleRate),
	}
}

type FilterToPredicate struct{}

func (r *FilterToPredicate) ID() RuleType      { return RuleFilterToPredicate }
func (r *FilterToPredicate) Pattern() *Pattern { return NewPattern(operators.LogicalFilter) }
func (r *FilterToPredicate) Check(b *Binding, ctx Context) bool { return true }

func (r *FilterToPredicate) Apply(b *Binding, ctx Context) []operators.Operator {
	filter := b.Expr.Op.(*operators.LogicalFilterNode)
	p := plans.NewPredicatePlanNode(filter.Predicate, nil)
	p.SetChildren(childRefs(b))
	return []operators.Operator{p}
}

type ProjectToProjection struct{}

func (r *ProjectToProjection) ID() RuleType      { return RuleProjectToProjection }
func (r *ProjectToProjection) Pattern() *Pattern { return NewPattern(operators.LogicalProject) }
func (r *ProjectToProjection) Check(b *Binding, ctx Context) bool { return true }

func (r *ProjectToProjection) Apply(b *Binding, ctx Context) []operators.Operator {
	proj := b.Expr.Op.(*operators.LogicalProjectNode)
	p := plans.NewProjectionPlanNode(proj.Exprs, nil)
	p.SetChildren(childRefs(b))
	return []operators.Operator{p}
}

// JoinToHashJoin implements an inner join as a hash join when the whole
// predicate is a conjunction of cross-side column equalities.
type JoinToHashJoin struct{}

func (r *JoinToHashJoin) ID() RuleType      { return RuleJoinToHashJoin }
func (r *JoinToHashJoin) Pattern() *Pattern { return NewPattern(operators.LogicalJoin) }

func (r *JoinToHashJoin) keys(b *Binding, ctx Context) ([][2]string, bool) {
	join := b.Expr.Op.(*operators.LogicalJoinNode)
	if join.JoinKind != operators.InnerJoin || join.Predicate == nil {
		return nil, false
	}
	leftAliases := groupAliases(ctx.Memo(), b.Children[0].GroupID)
	return expression.EquiJoinKeys(join.Predicate, func(col string) bool {
		a := columnAlias(col)
		return a != "" && leftAliases.Contains(a)
	})
}

func (r *JoinToHashJoin) Check(b *Binding, ctx Context) bool {
	_, ok := r.keys(b, ctx)
	return ok
}

func (r *JoinToHashJoin) Apply(b *Binding, ctx Context) []operators.Operator {
	keys, _ := r.keys(b, ctx)
	leftKeys := make([]string, len(keys))
	rightKeys := make([]string, len(keys))
	for i, k := range keys {
		leftKeys[i] = k[0]
		rightKeys[i] = k[1]
	}
	p := plans.NewHashJoinPlanNode(leftKeys, rightKeys, nil, nil)
	p.SetChildren(childRefs(b))
	return []operators.Operator{p}
}

// JoinToNestedLoopJoin implements any inner join, arbitrary predicates
// and cross products included. It competes with JoinToHashJoin on cost.
type JoinToNestedLoopJoin struct{}

func (r *JoinToNestedLoopJoin) ID() RuleType      { return RuleJoinToNestedLoopJoin }
func (r *JoinToNestedLoopJoin) Pattern() *Pattern { return NewPattern(operators.LogicalJoin) }

func (r *JoinToNestedLoopJoin) Check(b *Binding, ctx Context) bool {
	return b.Expr.Op.(*operators.LogicalJoinNode).JoinKind == operators.InnerJoin
}

func (r *JoinToNestedLoopJoin) Apply(b *Binding, ctx Context) []operators.Operator {
	join := b.Expr.Op.(*operators.LogicalJoinNode)
	p := plans.NewNestedLoopJoinPlanNode(join.Predicate, nil, nil)
	p.SetChildren(childRefs(b))
	return []operators.Operator{p}
}

type FunctionScanImpl struct{}

func (r *FunctionScanImpl) ID() RuleType      { return RuleFunctionScanImpl }
func (r *FunctionScanImpl) Pattern() *Pattern { return NewPattern(operators.LogicalFunctionScan) }
func (r *FunctionScanImpl) Check(b *Binding, ctx Context) bool { return true }

func (r *FunctionScanImpl) Apply(b *Binding, ctx Context) []operators.Operator {
	fs := b.Expr.Op.(*operators.LogicalFunctionScanNode)
	p := plans.NewFunctionScanPlanNode(fs.FuncExpr, nil)
	p.SetChildren(childRefs(b))
	return []operators.Operator{p}
}

type ApplyAndMergeImpl struct{}

func (r *ApplyAndMergeImpl) ID() RuleType      { return RuleApplyAndMergeImpl }
func (r *ApplyAndMergeImpl) Pattern() *Pattern { return NewPattern(operators.LogicalApplyAndMerge) }
func (r *ApplyAndMergeImpl) Check(b *Binding, ctx Context) bool { return true }

func (r *ApplyAndMergeImpl) Apply(b *Binding, ctx Context) []operators.Operator {
	am := b.Expr.Op.(*operators.LogicalApplyAndMergeNode)
	p := plans.NewApplyAndMergePlanNode(am.FuncExpr, nil)
	p.SetChildren(childRefs(b))
	return []operators.Operator{p}
}

// ApplyAndMergeToParallel implements a UDF application as an exchange:
// input batches are fanned out to workers that each run the UDF over a
// queue scan. It competes with the serial ApplyAndMergeImpl on cost.
type ApplyAndMergeToParallel struct{}

func (r *ApplyAndMergeToParallel) ID() RuleType { return RuleApplyAndMergeToParallel }
func (r *ApplyAndMergeToParallel) Pattern() *Pattern {
	return NewPattern(operators.LogicalApplyAndMerge)
}
func (r *ApplyAndMergeToParallel) Check(b *Binding, ctx Context) bool { return true }

func (r *ApplyAndMergeToParallel) Apply(b *Binding, ctx Context) []operators.Operator {
	am := b.Expr.Op.(*operators.LogicalApplyAndMergeNode)
	inner := plans.NewApplyAndMergePlanNode(am.FuncExpr, plans.NewQueueScanPlanNode())
	p := plans.NewExchangePlanNode(common.ExchangeParallelismDefault, inner, nil)
	p.SetChildren(childRefs(b))
	return []operators.Operator{p}
}

type GroupByImpl struct{}

func (r *GroupByImpl) ID() RuleType      { return RuleGroupByImpl }
func (r *GroupByImpl) Pattern() *Pattern { return NewPattern(operators.LogicalGroupBy) }
func (r *GroupByImpl) Check(b *Binding, ctx Context) bool { return true }

func (r *GroupByImpl) Apply(b *Binding, ctx Context) []operators.Operator {
	gb := b.Expr.Op.(*operators.LogicalGroupByNode)
	p := plans.NewGroupByPlanNode(gb.Keys, gb.AggTypes, gb.AggCols, nil)
	p.SetChildren(childRefs(b))
	return []operators.Operator{p}
}

type OrderByImpl struct{}

func (r *OrderByImpl) ID() RuleType      { return RuleOrderByImpl }
func (r *OrderByImpl) Pattern() *Pattern { return NewPattern(operators.LogicalOrderBy) }
func (r *OrderByImpl) Check(b *Binding, ctx Context) bool { return true }

func (r *OrderByImpl) Apply(b *Binding, ctx Context) []operators.Operator {
	ob := b.Expr.Op.(*operators.LogicalOrderByNode)
	p := plans.NewOrderByPlanNode(ob.Keys, nil)
	p.SetChildren(childRefs(b))
	return []operators.Operator{p}
}

type LimitImpl struct{}

func (r *LimitImpl) ID() RuleType      { return RuleLimitImpl }
func (r *LimitImpl) Pattern() *Pattern { return NewPattern(operators.LogicalLimit) }
func (r *LimitImpl) Check(b *Binding, ctx Context) bool { return true }

func (r *LimitImpl) Apply(b *Binding, ctx Context) []operators.Operator {
	l := b.Expr.Op.(*operators.LogicalLimitNode)
	p := plans.NewLimitPlanNode(l.Limit, l.Offset, nil)
	p.SetChildren(childRefs(b))
	return []operators.Operator{p}
}

type SampleImpl struct{}

func (r *SampleImpl) ID() RuleType      { return RuleSampleImpl }
func (r *SampleImpl) Pattern() *Pattern { return NewPattern(operators.LogicalSample) }
func (r *SampleImpl) Check(b *Binding, ctx Context) bool { return true }

func (r *SampleImpl) Apply(b *Binding, ctx Context) []operators.Operator {
	s := b.Expr.Op.(*operators.LogicalSampleNode)
	p := plans.NewSamplePlanNode(s.Rate, nil)
	p.SetChildren(childRefs(b))
	return []operators.Operator{p}
}

type UnionImpl struct{}

func (r *UnionImpl) ID() RuleType      { return RuleUnionImpl }
func (r *UnionImpl) Pattern() *Pattern { return NewPattern(operators.LogicalUnion) }
func (r *UnionImpl) Check(b *Binding, ctx Context) bool { return true }

func (r *UnionImpl) Apply(b *Binding, ctx Context) []operators.Operator {
	p := plans.NewUnionPlanNode(nil)
	p.SetChildren(childRefs(b))
	return []operators.Operator{p}
}

type InsertImpl struct{}

func (r *InsertImpl) ID() RuleType      { return RuleInsertImpl }
func (r *InsertImpl) Pattern() *Pattern { return NewPattern(operators.LogicalInsert) }
func (r *InsertImpl) Check(b *Binding, ctx Context) bool { return true }

func (r *InsertImpl) Apply(b *Binding, ctx Context) []operators.Operator {
	ins := b.Expr.Op.(*operators.LogicalInsertNode)
	return []operators.Operator{plans.NewInsertPlanNode(ins.Table, ins.Columns, ins.Rows)}
}

// DeleteImpl synthesizes the scan that locates the doomed rows: the
// physical delete drains a predicate-carrying scan of its own table and
// collects row ids from the scan output.
type DeleteImpl struct{}

func (r *DeleteImpl) ID() RuleType      { return RuleDeleteImpl }
func (r *DeleteImpl) Pattern() *Pattern { return NewPattern(operators.LogicalDelete) }
func (r *DeleteImpl) Check(b *Binding, ctx Context) bool { return true }

func (r *DeleteImpl) Apply(b *Binding, ctx Context) []operators.Operator {
	del := b.Expr.Op.(*operators.LogicalDeleteNode)
	scan := plans.NewSeqScanPlanNode(del.Table, del.Table, del.Predicate, nil, 0)
	return []operators.Operator{plans.NewDeletePlanNode(del.Table, del.Predicate, scan)}
}

type CreateTableImpl struct{}

func (r *CreateTableImpl) ID() RuleType      { return RuleCreateTableImpl }
func (r *CreateTableImpl) Pattern() *Pattern { return NewPattern(operators.LogicalCreate) }
func (r *CreateTableImpl) Check(b *Binding, ctx Context) bool { return true }

func (r *CreateTableImpl) Apply(b *Binding, ctx Context) []operators.Operator {
	c := b.Expr.Op.(*operators.LogicalCreateNode)
	return []operators.Operator{plans.NewCreateTablePlanNode(c.Table, c.Columns)}
}

type CreateIndexImpl struct{}

func (r *CreateIndexImpl) ID() RuleType      { return RuleCreateIndexImpl }
func (r *CreateIndexImpl) Pattern() *Pattern { return NewPattern(operators.LogicalCreateIndex) }
func (r *CreateIndexImpl) Check(b *Binding, ctx Context) bool { return true }

func (r *CreateIndexImpl) Apply(b *Binding, ctx Context) []operators.Operator {
	ci := b.Expr.Op.(*operators.LogicalCreateIndexNode)
	return []operators.Operator{
		plans.NewCreateIndexPlanNode(ci.IndexName, ci.Table, ci.FeatureColumn, ci.FuncExpr, ci.Dim),
	}
}

type CreateMaterializedViewImpl struct{}

func (r *CreateMaterializedViewImpl) ID() RuleType { return RuleCreateMaterializedViewImpl }
func (r *CreateMaterializedViewImpl) Pattern() *Pattern {
	return NewPattern(operators.LogicalCreateMaterializedView)
}
func (r *CreateMaterializedViewImpl) Check(b *Binding, ctx Context) bool { return true }

func (r *CreateMaterializedViewImpl) Apply(b *Binding, ctx Context) []operators.Operator {
	mv := b.Expr.Op.(*operators.LogicalCreateMaterializedViewNode)
	p := plans.NewCreateMaterializedViewPlanNode(mv.ViewName, mv.Columns, nil)
	p.SetChildren(childRefs(b))
	return []operators.Operator{p}
}

type VectorIndexScanImpl struct{}

func (r *VectorIndexScanImpl) ID() RuleType { return RuleVectorIndexScanImpl }
func (r *VectorIndexScanImpl) Pattern() *Pattern {
	return NewPattern(operators.LogicalVectorIndexScan)
}
func (r *VectorIndexScanImpl) Check(b *Binding, ctx Context) bool { return true }

func (r *VectorIndexScanImpl) Apply(b *Binding, ctx Context) []operators.Operator {
	vs := b.Expr.Op.(*operators.LogicalVectorIndexScanNode)
	p := plans.NewVectorIndexScanPlanNode(vs.IndexName, vs.Limit, vs.QueryExpr, nil)
	p.SetChildren(childRefs(b))
	return []operators.Operator{p}
}

type ExplainImpl struct{}

func (r *ExplainImpl) ID() RuleType      { return RuleExplainImpl }
func (r *ExplainImpl) Pattern() *Pattern { return NewPattern(operators.LogicalExplain) }
func (r *ExplainImpl) Check(b *Binding, ctx Context) bool { return true }

func (r *ExplainImpl) Apply(b *Binding, ctx Context) []operators.Operator {
	p := plans.NewExplainPlanNode(nil)
	p.SetChildren(childRefs(b))
	return []operators.Operator{p}
}
