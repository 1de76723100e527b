package executors

import (
	"fmt"
	"testing"

	"github.com/ryogrid/VimanaDB/lib/catalog"
	"github.com/ryogrid/VimanaDB/lib/execution/expression"
	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
	"github.com/ryogrid/VimanaDB/lib/storage"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
	testing_assert "github.com/ryogrid/VimanaDB/lib/testing/testing_assert"
	"github.com/ryogrid/VimanaDB/lib/types"
)

type stubExecutor struct {
	batches []*batch.Batch
	pos     int
}

func (s *stubExecutor) Init() error { return nil }

func (s *stubExecutor) Next() (*batch.Batch, Done, error) {
	if s.pos >= len(s.batches) {
		return nil, true, nil
	}
	b := s.batches[s.pos]
	s.pos++
	return b, false, nil
}

func intBatch(col string, vals ...int64) *batch.Batch {
	b := batch.New([]string{col})
	for _, v := range vals {
		b.AppendRow([]types.Value{types.NewInteger(v)})
	}
	return b
}

func drain(t *testing.T, e Executor) []*batch.Batch {
	t.Helper()
	var out []*batch.Batch
	for {
		b, done, err := e.Next()
		testing_assert.NoError(t, err)
		if done {
			return out
		}
		out = append(out, b)
	}
}

func TestPredicatePreservesBatchBoundaries(t *testing.T) {
	child := &stubExecutor{batches: []*batch.Batch{
		intBatch("t.id", 1),
		intBatch("t.id", 2, 3),
		intBatch("t.id", 4, 5, 6),
	}}
	pred := expression.NewComparison(
		expression.NewColumnValue("t.id"),
		expression.NewConstantValue(types.NewInteger(3)),
		expression.GreaterThan)
	e := NewPredicateExecutor(plans.NewPredicatePlanNode(pred, nil), child)
	testing_assert.NoError(t, e.Init())

	out := drain(t, e)
	testing_assert.Equals(t, 3, len(out))
	testing_assert.Equals(t, 0, out[0].NumRows())
	testing_assert.Equals(t, 0, out[1].NumRows())
	testing_assert.Equals(t, 3, out[2].NumRows())
}

func TestHashJoinMatchesDuplicateKeys(t *testing.T) {
	left := &stubExecutor{batches: []*batch.Batch{intBatch("l.k", 1, 2, 2)}}
	right := &stubExecutor{batches: []*batch.Batch{intBatch("r.k", 2, 2, 3)}}
	plan := plans.NewHashJoinPlanNode([]string{"l.k"}, []string{"r.k"}, nil, nil)
	e := NewHashJoinExecutor(plan, left, right)
	testing_assert.NoError(t, e.Init())

	out := drain(t, e)
	total := 0
	for _, b := range out {
		total += b.NumRows()
	}
	testing_assert.Equals(t, 4, total)
}

func TestHashJoinEmptyBuildSideFinishesWithoutProbing(t *testing.T) {
	left := &stubExecutor{}
	right := &stubExecutor{batches: []*batch.Batch{intBatch("r.k", 1, 2)}}
	plan := plans.NewHashJoinPlanNode([]string{"l.k"}, []string{"r.k"}, nil, nil)
	e := NewHashJoinExecutor(plan, left, right)
	testing_assert.NoError(t, e.Init())

	_, done, err := e.Next()
	testing_assert.NoError(t, err)
	testing_assert.Assert(t, done, "empty build side should end the join immediately")
	testing_assert.Equals(t, 0, right.pos)
}

func TestNestedLoopJoinCrossProduct(t *testing.T) {
	left := &stubExecutor{batches: []*batch.Batch{intBatch("l.a", 1, 2)}}
	right := &stubExecutor{batches: []*batch.Batch{intBatch("r.b", 10, 20, 30)}}
	e := NewNestedLoopJoinExecutor(plans.NewNestedLoopJoinPlanNode(nil, nil, nil), left, right)
	testing_assert.NoError(t, e.Init())

	out := drain(t, e)
	testing_assert.Equals(t, 1, len(out))
	testing_assert.Equals(t, 6, out[0].NumRows())
	testing_assert.Equals(t, 2, out[0].NumCols())
}

func TestLimitWithOffsetStopsEarly(t *testing.T) {
	child := &stubExecutor{batches: []*batch.Batch{
		intBatch("t.id", 1, 2, 3),
		intBatch("t.id", 4, 5, 6),
		intBatch("t.id", 7, 8, 9),
	}}
	e := NewLimitExecutor(plans.NewLimitPlanNode(3, 2, nil), child)
	testing_assert.NoError(t, e.Init())

	out := drain(t, e)
	var got []int64
	for _, b := range out {
		for r := 0; r < b.NumRows(); r++ {
			got = append(got, b.GetValue(r, 0).ToInteger())
		}
	}
	testing_assert.Equals(t, 3, len(got))
	testing_assert.Equals(t, int64(3), got[0])
	testing_assert.Equals(t, int64(5), got[2])
	testing_assert.Assert(t, child.pos <= 2, "limit should not drain batches past the cutoff")
}

func TestSampleCountsAcrossBatches(t *testing.T) {
	child := &stubExecutor{batches: []*batch.Batch{
		intBatch("t.id", 0, 1, 2),
		intBatch("t.id", 3, 4, 5),
	}}
	e := NewSampleExecutor(plans.NewSamplePlanNode(3, nil), child)
	testing_assert.NoError(t, e.Init())

	out := drain(t, e)
	var got []int64
	for _, b := range out {
		for r := 0; r < b.NumRows(); r++ {
			got = append(got, b.GetValue(r, 0).ToInteger())
		}
	}
	testing_assert.Equals(t, 2, len(got))
	testing_assert.Equals(t, int64(0), got[0])
	testing_assert.Equals(t, int64(3), got[1])
}

func TestGroupByAggregates(t *testing.T) {
	b := batch.New([]string{"t.k", "t.v"})
	for _, row := range [][2]int64{{1, 10}, {1, 20}, {2, 5}} {
		b.AppendRow([]types.Value{types.NewInteger(row[0]), types.NewInteger(row[1])})
	}
	plan := plans.NewGroupByPlanNode([]string{"t.k"},
		[]operators.AggregationType{operators.COUNT, operators.SUM, operators.AVG},
		[]string{"t.v", "t.v", "t.v"}, nil)
	e := NewGroupByExecutor(plan, &stubExecutor{batches: []*batch.Batch{b}})
	testing_assert.NoError(t, e.Init())

	out := drain(t, e)
	testing_assert.Equals(t, 1, len(out))
	res := out[0]
	testing_assert.Equals(t, 2, res.NumRows())
	testing_assert.Equals(t, int64(1), res.GetValue(0, 0).ToInteger())
	testing_assert.Equals(t, int64(2), res.GetValue(0, 1).ToInteger())
	testing_assert.Equals(t, int64(30), res.GetValue(0, 2).ToInteger())
	testing_assert.Equals(t, 15.0, res.GetValue(0, 3).ToFloat())
	testing_assert.Equals(t, int64(2), res.GetValue(1, 0).ToInteger())
	testing_assert.Equals(t, int64(1), res.GetValue(1, 1).ToInteger())
}

func TestGroupByMinMaxIgnoreNulls(t *testing.T) {
	b := batch.New([]string{"t.k", "t.v"})
	rows := []struct {
		k int64
		v types.Value
	}{
		{1, types.NewNull()},
		{1, types.NewInteger(5)},
		{1, types.NewInteger(2)},
		{1, types.NewNull()},
		{1, types.NewInteger(9)},
		{2, types.NewNull()},
	}
	for _, r := range rows {
		b.AppendRow([]types.Value{types.NewInteger(r.k), r.v})
	}
	plan := plans.NewGroupByPlanNode([]string{"t.k"},
		[]operators.AggregationType{operators.MIN, operators.MAX, operators.COUNT},
		[]string{"t.v", "t.v", "t.v"}, nil)
	e := NewGroupByExecutor(plan, &stubExecutor{batches: []*batch.Batch{b}})
	testing_assert.NoError(t, e.Init())

	out := drain(t, e)
	res := out[0]
	testing_assert.Equals(t, 2, res.NumRows())
	testing_assert.Equals(t, int64(2), res.GetValue(0, 1).ToInteger())
	testing_assert.Equals(t, int64(9), res.GetValue(0, 2).ToInteger())
	testing_assert.Equals(t, int64(3), res.GetValue(0, 3).ToInteger())
	testing_assert.Assert(t, res.GetValue(1, 1).IsNull(), "MIN over only NULLs must be NULL")
	testing_assert.Assert(t, res.GetValue(1, 2).IsNull(), "MAX over only NULLs must be NULL")
	testing_assert.Equals(t, int64(0), res.GetValue(1, 3).ToInteger())
}

func TestOrderByIsBlockingAndStable(t *testing.T) {
	child := &stubExecutor{batches: []*batch.Batch{
		intBatch("t.id", 3, 1),
		intBatch("t.id", 2),
	}}
	keys := []operators.OrderByKey{{Expr: expression.NewColumnValue("t.id"), Order: operators.ASC}}
	e := NewOrderByExecutor(plans.NewOrderByPlanNode(keys, nil), child)
	testing_assert.NoError(t, e.Init())

	out := drain(t, e)
	testing_assert.Equals(t, 1, len(out))
	testing_assert.Equals(t, int64(1), out[0].GetValue(0, 0).ToInteger())
	testing_assert.Equals(t, int64(2), out[0].GetValue(1, 0).ToInteger())
	testing_assert.Equals(t, int64(3), out[0].GetValue(2, 0).ToInteger())
}

func TestOrderBySortsNullKeysLast(t *testing.T) {
	mk := func() *batch.Batch {
		b := batch.New([]string{"t.id"})
		for _, v := range []types.Value{types.NewInteger(2), types.NewNull(), types.NewInteger(1)} {
			b.AppendRow([]types.Value{v})
		}
		return b
	}

	asc := []operators.OrderByKey{{Expr: expression.NewColumnValue("t.id"), Order: operators.ASC}}
	e := NewOrderByExecutor(plans.NewOrderByPlanNode(asc, nil),
		&stubExecutor{batches: []*batch.Batch{mk()}})
	testing_assert.NoError(t, e.Init())
	out := drain(t, e)
	testing_assert.Equals(t, int64(1), out[0].GetValue(0, 0).ToInteger())
	testing_assert.Equals(t, int64(2), out[0].GetValue(1, 0).ToInteger())
	testing_assert.Assert(t, out[0].GetValue(2, 0).IsNull(), "NULL key must sort last ascending")

	desc := []operators.OrderByKey{{Expr: expression.NewColumnValue("t.id"), Order: operators.DESC}}
	e = NewOrderByExecutor(plans.NewOrderByPlanNode(desc, nil),
		&stubExecutor{batches: []*batch.Batch{mk()}})
	testing_assert.NoError(t, e.Init())
	out = drain(t, e)
	testing_assert.Equals(t, int64(2), out[0].GetValue(0, 0).ToInteger())
	testing_assert.Equals(t, int64(1), out[0].GetValue(1, 0).ToInteger())
	testing_assert.Assert(t, out[0].GetValue(2, 0).IsNull(), "NULL key must sort last descending")
}

func TestApplyAndMergeQualifiesOutputColumns(t *testing.T) {
	udf := func(in *batch.Batch) (*batch.Batch, error) {
		out := batch.New([]string{"label"})
		for r := 0; r < in.NumRows(); r++ {
			if in.GetValue(r, 0).ToInteger() > 1 {
				out.AppendRow([]types.Value{types.NewVarchar("big")})
			} else {
				out.AppendRow([]types.Value{types.NewVarchar("small")})
			}
		}
		return out, nil
	}
	fe := expression.NewFunctionExpression("Classify", udf, expression.NewColumnValue("t.id"))
	child := &stubExecutor{batches: []*batch.Batch{intBatch("t.id", 1, 2)}}
	e := NewApplyAndMergeExecutor(plans.NewApplyAndMergePlanNode(fe, nil), child)
	testing_assert.NoError(t, e.Init())

	out := drain(t, e)
	testing_assert.Equals(t, 1, len(out))
	res := out[0]
	testing_assert.Assert(t, res.ColumnIndex("classify.label") >= 0,
		"UDF output should be qualified, got %v", res.Columns())
	testing_assert.Equals(t, "small", res.GetValue(0, res.ColumnIndex("classify.label")).ToVarchar())
	testing_assert.Equals(t, "big", res.GetValue(1, res.ColumnIndex("classify.label")).ToVarchar())
}

func TestUnionConcatenatesChildren(t *testing.T) {
	e := NewUnionExecutor(plans.NewUnionPlanNode(nil), []Executor{
		&stubExecutor{batches: []*batch.Batch{intBatch("t.id", 1)}},
		&stubExecutor{batches: []*batch.Batch{intBatch("t.id", 2, 3)}},
	})
	testing_assert.NoError(t, e.Init())

	out := drain(t, e)
	total := 0
	for _, b := range out {
		total += b.NumRows()
	}
	testing_assert.Equals(t, 3, total)
}

func TestExplainRendersWithoutRunningChildren(t *testing.T) {
	scan := plans.NewSeqScanPlanNode("videos", "v", nil, nil, 0)
	pred := expression.NewComparison(
		expression.NewColumnValue("v.id"),
		expression.NewConstantValue(types.NewInteger(1)),
		expression.Equal)
	tree := plans.NewExplainPlanNode(plans.NewPredicatePlanNode(pred, scan))

	engine := NewExecutionEngine()
	ctx := NewExecutorContext(nil, nil)
	out, err := engine.ExecutePlanFetchAll(tree, ctx)
	testing_assert.NoError(t, err)
	testing_assert.Equals(t, 1, len(out))
	testing_assert.Equals(t, 2, out[0].NumRows())
	first := out[0].GetValue(0, 0).ToVarchar()
	testing_assert.Assert(t, len(first) > 0 && first[0] == '|', "explain lines should be tree-drawn, got %q", first)
}

func TestProjectionEvaluatesExpressions(t *testing.T) {
	child := &stubExecutor{batches: []*batch.Batch{intBatch("t.id", 7)}}
	plan := plans.NewProjectionPlanNode(
		[]expression.Expression{expression.NewColumnValue("t.id")}, nil)
	e := NewProjectionExecutor(plan, child)
	testing_assert.NoError(t, e.Init())

	out := drain(t, e)
	testing_assert.Equals(t, 1, len(out))
	testing_assert.Equals(t, "t.id", out[0].Columns()[0])
	testing_assert.Equals(t, int64(7), out[0].GetValue(0, 0).ToInteger())
}

func TestFunctionScanEmitsOnlyFunctionColumns(t *testing.T) {
	udf := func(in *batch.Batch) (*batch.Batch, error) {
		out := batch.New([]string{"score"})
		for r := 0; r < in.NumRows(); r++ {
			out.AppendRow([]types.Value{types.NewFloat(float64(in.GetValue(r, 0).ToInteger()) * 0.5)})
		}
		return out, nil
	}
	fe := expression.NewFunctionExpression("Score", udf, expression.NewColumnValue("t.id"))
	child := &stubExecutor{batches: []*batch.Batch{intBatch("t.id", 2, 4)}}
	e := NewFunctionScanExecutor(plans.NewFunctionScanPlanNode(fe, nil), child)
	testing_assert.NoError(t, e.Init())

	out := drain(t, e)
	testing_assert.Equals(t, 1, len(out))
	testing_assert.Equals(t, 1, out[0].NumCols())
	testing_assert.Equals(t, "score.score", out[0].Columns()[0])
}

func TestCreateMaterializedViewIsSingleShot(t *testing.T) {
	st := storage.NewStorageEngine()
	cat, err := catalog.NewCatalog("")
	testing_assert.NoError(t, err)
	t.Cleanup(func() { cat.Close() })

	plan := plans.NewCreateMaterializedViewPlanNode("snapshot", []string{"id"}, nil)
	e := NewCreateMaterializedViewExecutor(plan,
		&stubExecutor{batches: []*batch.Batch{intBatch("t.id", 1, 2)}},
		NewExecutorContext(cat, st))
	testing_assert.NoError(t, e.Init())

	_, done, err := e.Next()
	testing_assert.NoError(t, err)
	testing_assert.Assert(t, done, "view creation finishes in one call")

	// a second call must not re-drain or re-create the table
	_, done, err = e.Next()
	testing_assert.NoError(t, err)
	testing_assert.Assert(t, done, "a finished executor stays done")
	count, err := st.RowCount("snapshot")
	testing_assert.NoError(t, err)
	testing_assert.Equals(t, uint64(2), count)
}

func TestUDFErrorPropagates(t *testing.T) {
	udf := func(in *batch.Batch) (*batch.Batch, error) {
		return nil, fmt.Errorf("model load failed")
	}
	fe := expression.NewFunctionExpression("Broken", udf, expression.NewColumnValue("t.id"))
	child := &stubExecutor{batches: []*batch.Batch{intBatch("t.id", 1)}}
	e := NewApplyAndMergeExecutor(plans.NewApplyAndMergePlanNode(fe, nil), child)
	testing_assert.NoError(t, e.Init())

	_, _, err := e.Next()
	testing_assert.Assert(t, err != nil, "UDF failure should surface from Next")
}
