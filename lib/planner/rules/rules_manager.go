package rules

// RulesManager owns the rule sets the optimizer runs. Stage one rewrite
// rules run top down and their order matters: lateral joins must become
// linear flows before any filter pushdown looks at a join. Stage two
// runs bottom up after the tree has settled.
type RulesManager struct {
	rewriteStageOne []Rule
	rewriteStageTwo []Rule
	transformation  []Rule
	implementation  []Rule
}

func NewRulesManager(enableParallel bool) *RulesManager {
	rm := &RulesManager{
		rewriteStageOne: []Rule{
			&XformLateralJoinToLinearFlow{},
			&PushDownFilterThroughApplyAndMerge{},
			&PushDownFilterThroughJoin{},
			&EmbedFilterIntoGet{},
			&EmbedSampleIntoGet{},
			&CombineSimilarityOrderByAndLimitToVectorIndexScan{},
		},
		rewriteStageTwo: []Rule{
			&EmbedProjectIntoGet{},
		},
		transformation: []Rule{
			&InnerJoinCommutativity{},
		},
		implementation: []Rule{
			&GetToSeqScan{},
			&FilterToPredicate{},
			&ProjectToProjection{},
			&JoinToHashJoin{},
			&JoinToNestedLoopJoin{},
			&FunctionScanImpl{},
			&ApplyAndMergeImpl{},
			&GroupByImpl{},
			&OrderByImpl{},
			&LimitImpl{},
			&SampleImpl{},
			&UnionImpl{},
			&InsertImpl{},
			&DeleteImpl{},
			&CreateTableImpl{},
			&CreateIndexImpl{},
			&CreateMaterializedViewImpl{},
			&VectorIndexScanImpl{},
			&ExplainImpl{},
		},
	}
	if enableParallel {
		rm.implementation = append(rm.implementation, &ApplyAndMergeToParallel{})
	}
	return rm
}

func (rm *RulesManager) RewriteStageOne() []Rule { return rm.rewriteStageOne }
func (rm *RulesManager) RewriteStageTwo() []Rule { return rm.rewriteStageTwo }
func (rm *RulesManager) Transformation() []Rule  { return rm.transformation }
func (rm *RulesManager) Implementation() []Rule  { return rm.implementation }
