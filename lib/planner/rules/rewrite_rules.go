package rules

import (
	"strings"

	"github.com/ryogrid/VimanaDB/lib/execution/expression"
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// XformLateralJoinToLinearFlow turns a lateral join whose right side is
// a function scan into a linear apply-and-merge over the left input.
// It must run before join filter pushdown so no other join rule ever
// sees a lateral join.
type XformLateralJoinToLinearFlow struct{}

func (r *XformLateralJoinToLinearFlow) ID() RuleType { return RuleXformLateralJoinToLinearFlow }

func (r *XformLateralJoinToLinearFlow) Pattern() *Pattern {
	return NewPattern(operators.LogicalJoin, AnyPattern(), NewPattern(operators.LogicalFunctionScan))
}

func (r *XformLateralJoinToLinearFlow) Check(b *Binding, ctx Context) bool {
	join := b.Expr.Op.(*operators.LogicalJoinNode)
	return join.JoinKind == operators.LateralJoin && join.Predicate == nil
}

func (r *XformLateralJoinToLinearFlow) Apply(b *Binding, ctx Context) []operators.Operator {
	fs := b.Children[1].Expr.Op.(*operators.LogicalFunctionScanNode)
	return []operators.Operator{
		operators.NewLogicalApplyAndMerge(fs.FuncExpr, b.Children[0].GroupRef()),
	}
}

// PushDownFilterThroughApplyAndMerge moves the filter conjuncts that do
// not touch the UDF's output columns below the UDF, so fewer rows reach
// the expensive function.
type PushDownFilterThroughApplyAndMerge struct{}

func (r *PushDownFilterThroughApplyAndMerge) ID() RuleType {
	return RulePushDownFilterThroughApplyAndMerge
}

func (r *PushDownFilterThroughApplyAndMerge) Pattern() *Pattern {
	return NewPattern(operators.LogicalFilter,
		NewPattern(operators.LogicalApplyAndMerge, AnyPattern()))
}

func (r *PushDownFilterThroughApplyAndMerge) split(b *Binding) (pushed []expression.Expression, kept []expression.Expression) {
	filter := b.Expr.Op.(*operators.LogicalFilterNode)
	am := b.Children[0].Expr.Op.(*operators.LogicalApplyAndMergeNode)
	funcAlias := strings.ToLower(am.FuncExpr.FunctionName())
	for _, conj := range expression.SplitConjunction(filter.Predicate) {
		movable := true
		for _, col := range expression.ColumnsReferenced(conj) {
			a := columnAlias(col)
			if a == "" || a == funcAlias {
				movable = false
				break
			}
		}
		if movable {
			pushed = append(pushed, conj)
		} else {
			kept = append(kept, conj)
		}
	}
	return pushed, kept
}

func (r *PushDownFilterThroughApplyAndMerge) Check(b *Binding, ctx Context) bool {
	pushed, _ := r.split(b)
	return len(pushed) > 0
}

func (r *PushDownFilterThroughApplyAndMerge) Apply(b *Binding, ctx Context) []operators.Operator {
	pushed, kept := r.split(b)
	am := b.Children[0].Expr.Op.(*operators.LogicalApplyAndMergeNode)
	below := operators.NewLogicalFilter(expression.CombineConjunction(pushed),
		b.Children[0].Children[0].GroupRef())
	var out operators.Operator = operators.NewLogicalApplyAndMerge(am.FuncExpr, below)
	if len(kept) > 0 {
		out = operators.NewLogicalFilter(expression.CombineConjunction(kept), out)
	}
	return []operators.Operator{out}
}

// PushDownFilterThroughJoin classifies each filter conjunct by the join
// side whose aliases cover it and pushes it there. Uncovered conjuncts
// join the join predicate.
type PushDownFilterThroughJoin struct{}

func (r *PushDownFilterThroughJoin) ID() RuleType { return RulePushDownFilterThroughJoin }

func (r *PushDownFilterThroughJoin) Pattern() *Pattern {
	return NewPattern(operators.LogicalFilter,
		NewPattern(operators.LogicalJoin, AnyPattern(), AnyPattern()))
}

func (r *PushDownFilterThroughJoin) Check(b *Binding, ctx Context) bool {
	join := b.Children[0].Expr.Op.(*operators.LogicalJoinNode)
	if join.JoinKind != operators.InnerJoin {
		return false
	}
	filter := b.Expr.Op.(*operators.LogicalFilterNode)
	m := ctx.Memo()
	leftAliases := groupAliases(m, b.Children[0].Children[0].GroupID)
	rightAliases := groupAliases(m, b.Children[0].Children[1].GroupID)
	for _, conj := range expression.SplitConjunction(filter.Predicate) {
		if aliasesCovered(conj, leftAliases) || aliasesCovered(conj, rightAliases) {
			return true
		}
	}
	return false
}

func (r *PushDownFilterThroughJoin) Apply(b *Binding, ctx Context) []operators.Operator {
	filter := b.Expr.Op.(*operators.LogicalFilterNode)
	joinBinding := b.Children[0]
	join := joinBinding.Expr.Op.(*operators.LogicalJoinNode)
	m := ctx.Memo()

	leftAliases := groupAliases(m, joinBinding.Children[0].GroupID)
	rightAliases := groupAliases(m, joinBinding.Children[1].GroupID)

	var leftConjs, rightConjs []expression.Expression
	joinConjs := expression.SplitConjunction(join.Predicate)
	for _, conj := range expression.SplitConjunction(filter.Predicate) {
		switch {
		case aliasesCovered(conj, leftAliases):
			leftConjs = append(leftConjs, conj)
		case aliasesCovered(conj, rightAliases):
			rightConjs = append(rightConjs, conj)
		default:
			joinConjs = append(joinConjs, conj)
		}
	}

	var left operators.Operator = joinBinding.Children[0].GroupRef()
	if len(leftConjs) > 0 {
		left = operators.NewLogicalFilter(expression.CombineConjunction(leftConjs), left)
	}
	var right operators.Operator = joinBinding.Children[1].GroupRef()
	if len(rightConjs) > 0 {
		right = operators.NewLogicalFilter(expression.CombineConjunction(rightConjs), right)
	}
	newJoin := operators.NewLogicalJoin(operators.InnerJoin,
		expression.CombineConjunction(joinConjs), left, right)
	return []operators.Operator{newJoin}
}

// EmbedFilterIntoGet folds a filter sitting directly on a scan into the
// scan itself.
type EmbedFilterIntoGet struct{}

func (r *EmbedFilterIntoGet) ID() RuleType { return RuleEmbedFilterIntoGet }

func (r *EmbedFilterIntoGet) Pattern() *Pattern {
	return NewPattern(operators.LogicalFilter, NewPattern(operators.LogicalGet))
}

func (r *EmbedFilterIntoGet) Check(b *Binding, ctx Context) bool { return true }

func (r *EmbedFilterIntoGet) Apply(b *Binding, ctx Context) []operators.Operator {
	filter := b.Expr.Op.(*operators.LogicalFilterNode)
	get := b.Children[0].Expr.Op.(*operators.LogicalGetNode)
	pred := filter.Predicate
	if get.Predicate != nil {
		pred = expression.CombineConjunction([]expression.Expression{get.Predicate, pred})
	}
	newGet := operators.NewLogicalGet(get.Table, get.Alias)
	newGet.Predicate = pred
	newGet.ProjectList = get.ProjectList
	newGet.SampleRate = get.SampleRate
	return []operators.Operator{newGet}
}

// EmbedSampleIntoGet folds a sample sitting directly on a scan into the
// scan itself.
type EmbedSampleIntoGet struct{}

func (r *EmbedSampleIntoGet) ID() RuleType { return RuleEmbedSampleIntoGet }

func (r *EmbedSampleIntoGet) Pattern() *Pattern {
	return NewPattern(operators.LogicalSample, NewPattern(operators.LogicalGet))
}

func (r *EmbedSampleIntoGet) Check(b *Binding, ctx Context) bool {
	return b.Children[0].Expr.Op.(*operators.LogicalGetNode).SampleRate == 0
}

func (r *EmbedSampleIntoGet) Apply(b *Binding, ctx Context) []operators.Operator {
	sample := b.Expr.Op.(*operators.LogicalSampleNode)
	get := b.Children[0].Expr.Op.(*operators.LogicalGetNode)
	newGet := operators.NewLogicalGet(get.Table, get.Alias)
	newGet.Predicate = get.Predicate
	newGet.ProjectList = get.ProjectList
	newGet.SampleRate = sample.Rate
	return []operators.Operator{newGet}
}

// CombineSimilarityOrderByAndLimitToVectorIndexScan recognizes
// ORDER BY Similarity(...) ASC LIMIT k over a feature column that has a
// matching vector index and replaces the pair with an index-backed top-k
// scan.
type CombineSimilarityOrderByAndLimitToVectorIndexScan struct{}

func (r *CombineSimilarityOrderByAndLimitToVectorIndexScan) ID() RuleType {
	return RuleCombineSimilarityOrderByAndLimitToVectorIndexScan
}

func (r *CombineSimilarityOrderByAndLimitToVectorIndexScan) Pattern() *Pattern {
	return NewPattern(operators.LogicalLimit,
		NewPattern(operators.LogicalOrderBy, AnyPattern()))
}

func (r *CombineSimilarityOrderByAndLimitToVectorIndexScan) match(b *Binding, ctx Context) (string, *expression.Similarity) {
	if ctx.Catalog() == nil {
		return "", nil
	}
	limit := b.Expr.Op.(*operators.LogicalLimitNode)
	if limit.Offset != 0 {
		return "", nil
	}
	ob := b.Children[0].Expr.Op.(*operators.LogicalOrderByNode)
	if len(ob.Keys) != 1 || ob.Keys[0].Order != operators.ASC {
		return "", nil
	}
	sim, ok := ob.Keys[0].Expr.(*expression.Similarity)
	if !ok || sim.FeatureExpr() == nil {
		return "", nil
	}
	cols := expression.ColumnsReferenced(sim.FeatureExpr())
	if len(cols) == 0 {
		return "", nil
	}
	entry := ctx.Catalog().LookupIndexByFeature(
		sim.FeatureExpr().FunctionName(), bareColumnName(cols[0]))
	if entry == nil {
		return "", nil
	}
	return entry.Name, sim
}

func (r *CombineSimilarityOrderByAndLimitToVectorIndexScan) Check(b *Binding, ctx Context) bool {
	name, _ := r.match(b, ctx)
	return name != ""
}

func (r *CombineSimilarityOrderByAndLimitToVectorIndexScan) Apply(b *Binding, ctx Context) []operators.Operator {
	indexName, sim := r.match(b, ctx)
	limit := b.Expr.Op.(*operators.LogicalLimitNode)
	return []operators.Operator{
		operators.NewLogicalVectorIndexScan(indexName, limit.Limit, sim.QueryExpr(),
			b.Children[0].Children[0].GroupRef()),
	}
}

// EmbedProjectIntoGet folds a pure column projection into the scan. It
// runs in the bottom-up stage, after every filter has settled.
type EmbedProjectIntoGet struct{}

func (r *EmbedProjectIntoGet) ID() RuleType { return RuleEmbedProjectIntoGet }

func (r *EmbedProjectIntoGet) Pattern() *Pattern {
	return NewPattern(operators.LogicalProject, NewPattern(operators.LogicalGet))
}

func (r *EmbedProjectIntoGet) Check(b *Binding, ctx Context) bool {
	proj := b.Expr.Op.(*operators.LogicalProjectNode)
	get := b.Children[0].Expr.Op.(*operators.LogicalGetNode)
	if get.ProjectList != nil {
		return false
	}
	for _, e := range proj.Exprs {
		if _, ok := e.(*expression.ColumnValue); !ok {
			return false
		}
	}
	return len(proj.Exprs) > 0
}

func (r *EmbedProjectIntoGet) Apply(b *Binding, ctx Context) []operators.Operator {
	proj := b.Expr.Op.(*operators.LogicalProjectNode)
	get := b.Children[0].Expr.Op.(*operators.LogicalGetNode)
	cols := make([]string, len(proj.Exprs))
	for i, e := range proj.Exprs {
		cols[i] = e.(*expression.ColumnValue).ColumnName()
	}
	newGet := operators.NewLogicalGet(get.Table, get.Alias)
	newGet.Predicate = get.Predicate
	newGet.ProjectList = cols
	newGet.SampleRate = get.SampleRate
	return []operators.Operator{newGet}
}
