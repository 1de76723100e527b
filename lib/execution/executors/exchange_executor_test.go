package executors

import (
	"errors"
	"testing"

	"github.com/ryogrid/VimanaDB/lib/catalog"
	"github.com/ryogrid/VimanaDB/lib/common"
	"github.com/ryogrid/VimanaDB/lib/execution/expression"
	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/storage"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
	testing_assert "github.com/ryogrid/VimanaDB/lib/testing/testing_assert"
	"github.com/ryogrid/VimanaDB/lib/types"
)

func seedTable(t *testing.T, rows int) (*storage.StorageEngine, *catalog.Catalog) {
	t.Helper()
	st := storage.NewStorageEngine()
	testing_assert.NoError(t, st.CreateTable("frames", []string{"id"}))
	in := batch.New([]string{"id"})
	for i := 0; i < rows; i++ {
		in.AppendRow([]types.Value{types.NewInteger(int64(i))})
	}
	testing_assert.NoError(t, st.Write("frames", in))
	cat, err := catalog.NewCatalog("")
	testing_assert.NoError(t, err)
	t.Cleanup(func() { cat.Close() })
	return st, cat
}

func exchangeOver(fe *expression.FunctionExpression, parallelism int) *plans.ExchangePlanNode {
	inner := plans.NewApplyAndMergePlanNode(fe, plans.NewQueueScanPlanNode())
	scan := plans.NewSeqScanPlanNode("frames", "f", nil, nil, 0)
	return plans.NewExchangePlanNode(parallelism, inner, scan)
}

func TestExchangeProcessesEveryRow(t *testing.T) {
	st, cat := seedTable(t, 600)
	udf := func(in *batch.Batch) (*batch.Batch, error) {
		out := batch.New([]string{"doubled"})
		for r := 0; r < in.NumRows(); r++ {
			out.AppendRow([]types.Value{types.NewInteger(in.GetValue(r, 0).ToInteger() * 2)})
		}
		return out, nil
	}
	fe := expression.NewFunctionExpression("Double", udf, expression.NewColumnValue("f.id"))

	engine := NewExecutionEngine()
	out, err := engine.ExecutePlanFetchAll(exchangeOver(fe, 2), NewExecutorContext(cat, st))
	testing_assert.NoError(t, err)

	total := 0
	for _, b := range out {
		total += b.NumRows()
		testing_assert.Assert(t, b.ColumnIndex("double.doubled") >= 0,
			"worker output should carry the UDF column, got %v", b.Columns())
	}
	testing_assert.Equals(t, 600, total)
}

func TestExchangeForwardsWorkerErrors(t *testing.T) {
	st, cat := seedTable(t, 600)
	udf := func(in *batch.Batch) (*batch.Batch, error) {
		return nil, errors.New("inference backend down")
	}
	fe := expression.NewFunctionExpression("Broken", udf, expression.NewColumnValue("f.id"))

	engine := NewExecutionEngine()
	_, err := engine.ExecutePlanFetchAll(exchangeOver(fe, 2), NewExecutorContext(cat, st))
	testing_assert.Assert(t, err != nil, "worker failure should reach the consumer")
	var execErr *common.ExecutorError
	testing_assert.Assert(t, errors.As(err, &execErr), "failure should be wrapped as an executor error")
}

func TestQueueScanRequiresExchange(t *testing.T) {
	e := NewQueueScanExecutor(plans.NewQueueScanPlanNode(), NewExecutorContext(nil, nil))
	testing_assert.Assert(t, e.Init() != nil, "queue scan outside an exchange must fail at init")
}
