package optimizer

import (
	"errors"
	"testing"
	"time"

	"github.com/ryogrid/VimanaDB/lib/catalog"
	"github.com/ryogrid/VimanaDB/lib/common"
	"github.com/ryogrid/VimanaDB/lib/execution/expression"
	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
	testing_assert "github.com/ryogrid/VimanaDB/lib/testing/testing_assert"
	"github.com/ryogrid/VimanaDB/lib/types"
)

func colEq(col string, val int64) expression.Expression {
	return expression.NewComparison(
		expression.NewColumnValue(col),
		expression.NewConstantValue(types.NewInteger(val)),
		expression.Equal)
}

func joinCols(left string, right string) expression.Expression {
	return expression.NewComparison(
		expression.NewColumnValue(left),
		expression.NewColumnValue(right),
		expression.Equal)
}

func TestFilterIsEmbeddedIntoScan(t *testing.T) {
	pg := NewPlanGenerator(nil, false, 0)
	root := operators.NewLogicalFilter(colEq("v.id", 1), operators.NewLogicalGet("videos", "v"))

	plan, err := pg.Build(root)
	testing_assert.NoError(t, err)

	scan, ok := plan.(*plans.SeqScanPlanNode)
	testing_assert.Assert(t, ok, "plan root should be a seq scan, got %s", plan.Signature())
	testing_assert.Assert(t, scan.Predicate != nil, "filter should be folded into the scan")
	testing_assert.Equals(t, 0, len(plan.GetChildren()))
}

func TestHashJoinWinsForEquiJoin(t *testing.T) {
	pg := NewPlanGenerator(nil, false, 0)
	root := operators.NewLogicalJoin(operators.InnerJoin, joinCols("a.id", "b.id"),
		operators.NewLogicalGet("ta", "a"), operators.NewLogicalGet("tb", "b"))

	plan, err := pg.Build(root)
	testing_assert.NoError(t, err)

	join, ok := plan.(*plans.HashJoinPlanNode)
	testing_assert.Assert(t, ok, "equi join should become a hash join, got %s", plan.Signature())
	testing_assert.Equals(t, "a.id", join.LeftKeys[0])
	testing_assert.Equals(t, "b.id", join.RightKeys[0])
}

func TestNestedLoopJoinForNonEquiPredicate(t *testing.T) {
	pg := NewPlanGenerator(nil, false, 0)
	pred := expression.NewComparison(
		expression.NewColumnValue("a.id"),
		expression.NewColumnValue("b.id"),
		expression.LessThan)
	root := operators.NewLogicalJoin(operators.InnerJoin, pred,
		operators.NewLogicalGet("ta", "a"), operators.NewLogicalGet("tb", "b"))

	plan, err := pg.Build(root)
	testing_assert.NoError(t, err)

	_, ok := plan.(*plans.NestedLoopJoinPlanNode)
	testing_assert.Assert(t, ok, "non-equi join should become a nested loop join, got %s", plan.Signature())
}

// A filter above a lateral join must not be pushed through the join.
// The lateral join first becomes a linear UDF application, then the
// scan-only conjuncts sink below the UDF into the scan.
func TestLateralJoinRewritePrecedesFilterPushdown(t *testing.T) {
	pg := NewPlanGenerator(nil, false, 0)
	fe := expression.NewFunctionExpression("Classify", nil, expression.NewColumnValue("v.id"))
	join := operators.NewLogicalJoin(operators.LateralJoin, nil,
		operators.NewLogicalGet("videos", "v"),
		operators.NewLogicalFunctionScan(fe))
	root := operators.NewLogicalFilter(colEq("v.id", 1), join)

	plan, err := pg.Build(root)
	testing_assert.NoError(t, err)

	am, ok := plan.(*plans.ApplyAndMergePlanNode)
	testing_assert.Assert(t, ok, "lateral join should become apply-and-merge, got %s", plan.Signature())
	scan, ok := am.GetChildAt(0).(*plans.SeqScanPlanNode)
	testing_assert.Assert(t, ok, "apply-and-merge child should be the scan, got %s", am.GetChildAt(0).Signature())
	testing_assert.Assert(t, scan.Predicate != nil, "scan predicate should carry the pushed filter")
}

func TestRewriteIsIdempotent(t *testing.T) {
	pg := NewPlanGenerator(nil, false, 0)

	filtered := operators.NewLogicalFilter(colEq("v.id", 1), operators.NewLogicalGet("videos", "v"))
	plan1, err := pg.Build(filtered)
	testing_assert.NoError(t, err)

	embedded := operators.NewLogicalGet("videos", "v")
	embedded.Predicate = colEq("v.id", 1)
	plan2, err := pg.Build(embedded)
	testing_assert.NoError(t, err)

	testing_assert.Equals(t, plan1.Signature(), plan2.Signature())
}

func TestPlanExtractionIsDeterministic(t *testing.T) {
	pg := NewPlanGenerator(nil, false, 0)
	build := func() string {
		root := operators.NewLogicalFilter(colEq("a.id", 1),
			operators.NewLogicalJoin(operators.InnerJoin, joinCols("a.id", "b.id"),
				operators.NewLogicalGet("ta", "a"), operators.NewLogicalGet("tb", "b")))
		plan, err := pg.Build(root)
		testing_assert.NoError(t, err)
		return plans.DebugTreeString(plan)
	}
	first := build()
	for i := 0; i < 5; i++ {
		testing_assert.Equals(t, first, build())
	}
}

func TestOptimizerTimeoutSurfacesAsSentinelError(t *testing.T) {
	pg := NewPlanGenerator(nil, false, time.Nanosecond)
	root := operators.NewLogicalFilter(colEq("v.id", 1), operators.NewLogicalGet("videos", "v"))

	time.Sleep(time.Millisecond)
	_, err := pg.Build(root)
	testing_assert.Assert(t, errors.Is(err, common.ErrOptimizerTimeout),
		"expected optimizer timeout, got %v", err)
}

func TestSimilarityOrderByLimitUsesVectorIndex(t *testing.T) {
	cat, err := catalog.NewCatalog("")
	testing_assert.NoError(t, err)
	defer cat.Close()
	testing_assert.NoError(t, cat.CreateIndexCatalogEntry(&catalog.IndexCatalogEntry{
		Name:          "idx_videos_data",
		TableName:     "videos",
		FeatureColumn: "data",
		FunctionName:  "Extract",
		SaveFilePath:  "idx_videos_data.vidx",
		Dim:           3,
	}))

	pg := NewPlanGenerator(cat, false, 0)
	featureExpr := expression.NewFunctionExpression("Extract", nil, expression.NewColumnValue("v.data"))
	queryExpr := expression.NewFunctionExpression("Extract", nil,
		expression.NewConstantValue(types.NewVarchar("query.png")))
	sim := expression.NewSimilarity(featureExpr, queryExpr)
	root := operators.NewLogicalLimit(3, 0,
		operators.NewLogicalOrderBy(
			[]operators.OrderByKey{{Expr: sim, Order: operators.ASC}},
			operators.NewLogicalGet("videos", "v")))

	plan, err := pg.Build(root)
	testing_assert.NoError(t, err)

	vs, ok := plan.(*plans.VectorIndexScanPlanNode)
	testing_assert.Assert(t, ok, "order-by similarity with limit should use the index, got %s", plan.Signature())
	testing_assert.Equals(t, "idx_videos_data", vs.IndexName)
	testing_assert.Equals(t, uint64(3), vs.Limit)
}

func TestParallelApplyAndMergeWinsWhenEnabled(t *testing.T) {
	fe := expression.NewFunctionExpression("Classify", nil, expression.NewColumnValue("v.id"))
	root := func() operators.Operator {
		return operators.NewLogicalApplyAndMerge(fe, operators.NewLogicalGet("videos", "v"))
	}

	serial, err := NewPlanGenerator(nil, false, 0).Build(root())
	testing_assert.NoError(t, err)
	_, isSerial := serial.(*plans.ApplyAndMergePlanNode)
	testing_assert.Assert(t, isSerial, "serial mode should keep apply-and-merge, got %s", serial.Signature())

	parallel, err := NewPlanGenerator(nil, true, 0).Build(root())
	testing_assert.NoError(t, err)
	ex, isParallel := parallel.(*plans.ExchangePlanNode)
	testing_assert.Assert(t, isParallel, "parallel mode should pick the exchange, got %s", parallel.Signature())
	testing_assert.Equals(t, common.ExchangeParallelismDefault, ex.Parallelism)
}
