package operators

type OpType int

// One tag space covers logical and physical operators, so the memo can
// hold both during cost-based search. Logical tags come first; anything
// past logicalEnd is physical.
const (
	Invalid OpType = iota

	LogicalGet
	LogicalFilter
	LogicalProject
	LogicalJoin
	LogicalFunctionScan
	LogicalApplyAndMerge
	LogicalGroupBy
	LogicalOrderBy
	LogicalLimit
	LogicalSample
	LogicalUnion
	LogicalInsert
	LogicalDelete
	LogicalCreate
	LogicalCreateIndex
	LogicalCreateMaterializedView
	LogicalVectorIndexScan
	LogicalExplain

	logicalEnd

	SeqScan
	Predicate
	Projection
	HashJoin
	NestedLoopJoin
	ApplyAndMerge
	FunctionScan
	GroupBy
	OrderBy
	Limit
	Sample
	Union
	Insert
	Delete
	CreateTable
	CreateIndex
	CreateMaterializedView
	VectorIndexScan
	Exchange
	QueueScan
	Explain

	DummyGroupRef
)

func (t OpType) IsLogical() bool {
	return t > Invalid && t < logicalEnd
}
