package rules

import (
	"github.com/ryogrid/VimanaDB/lib/catalog"
	"github.com/ryogrid/VimanaDB/lib/planner/memo"
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

type RuleType int

const (
	RuleXformLateralJoinToLinearFlow RuleType = iota
	RulePushDownFilterThroughApplyAndMerge
	RulePushDownFilterThroughJoin
	RuleEmbedFilterIntoGet
	RuleEmbedSampleIntoGet
	RuleCombineSimilarityOrderByAndLimitToVectorIndexScan
	RuleEmbedProjectIntoGet

	RuleInnerJoinCommutativity

	RuleGetToSeqScan
	RuleFilterToPredicate
	RuleProjectToProjection
	RuleJoinToHashJoin
	RuleJoinToNestedLoopJoin
	RuleFunctionScanImpl
	RuleApplyAndMergeImpl
	RuleApplyAndMergeToParallel
	RuleGroupByImpl
	RuleOrderByImpl
	RuleLimitImpl
	RuleSampleImpl
	RuleUnionImpl
	RuleInsertImpl
	RuleDeleteImpl
	RuleCreateTableImpl
	RuleCreateIndexImpl
	RuleCreateMaterializedViewImpl
	RuleVectorIndexScanImpl
	RuleExplainImpl
)

// Context hands a rule the state it may consult. The optimizer's own
// context type satisfies this; rules never see the optimizer itself.
type Context interface {
	Memo() *memo.Memo
	Catalog() *catalog.Catalog
}

// Rule rewrites or implements a memoized logical expression. Check runs
// on a successful pattern binding; Apply returns replacement operator
// trees whose leaves reference already-memoized groups through
// DummyGroupRefNode.
type Rule interface {
	ID() RuleType
	Pattern() *Pattern
	Check(b *Binding, ctx Context) bool
	Apply(b *Binding, ctx Context) []operators.Operator
}
