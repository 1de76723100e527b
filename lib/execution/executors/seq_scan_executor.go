package executors

import (
	"fmt"

	"github.com/ryogrid/VimanaDB/lib/common"
	"github.com/ryogrid/VimanaDB/lib/execution/expression"
	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/storage"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
)

// SeqScanExecutor reads a table snapshot and applies the sampling,
// predicate and projection folded into the scan, in that order, to each
// storage batch. One storage batch maps to exactly one output batch.
// Output columns are qualified with the scan alias.
type SeqScanExecutor struct {
	plan *plans.SeqScanPlanNode
	ctx  *ExecutorContext
	iter *storage.BatchIterator
	seen int
}

func NewSeqScanExecutor(plan *plans.SeqScanPlanNode, ctx *ExecutorContext) *SeqScanExecutor {
	return &SeqScanExecutor{plan: plan, ctx: ctx}
}

func (e *SeqScanExecutor) Init() error {
	iter, err := e.ctx.Storage().Read(e.plan.Table, common.BatchRowsDefault)
	if err != nil {
		return err
	}
	e.iter = iter
	return nil
}

func (e *SeqScanExecutor) Next() (*batch.Batch, Done, error) {
	raw, done, err := e.iter.Next()
	if err != nil || done {
		return nil, done, err
	}

	cols := raw.Columns()
	qualified := make([]string, len(cols))
	for i, c := range cols {
		qualified[i] = e.plan.Alias + "." + c
	}
	out := batch.New(qualified)
	for i := 0; i < raw.NumRows(); i++ {
		if e.plan.SampleRate > 1 && e.seen%e.plan.SampleRate != 0 {
			e.seen++
			continue
		}
		e.seen++
		out.AppendRow(raw.Row(i))
	}

	if e.plan.Predicate != nil {
		out, err = filterBatch(out, e.plan.Predicate)
		if err != nil {
			return nil, false, err
		}
	}
	if e.plan.ProjectList != nil {
		idxs := make([]int, len(e.plan.ProjectList))
		for i, name := range e.plan.ProjectList {
			idx := out.ColumnIndex(name)
			if idx < 0 {
				return nil, false, fmt.Errorf("scan of %s has no column %s", e.plan.Table, name)
			}
			idxs[i] = idx
		}
		out = out.Project(idxs)
	}
	return out, false, nil
}

// filterBatch keeps the rows for which the predicate evaluates to true.
// Zero surviving rows still yield a batch, so boundaries are preserved.
func filterBatch(b *batch.Batch, pred expression.Expression) (*batch.Batch, error) {
	vals, err := pred.Evaluate(b)
	if err != nil {
		return nil, err
	}
	keep := make([]int, 0, len(vals))
	for i, v := range vals {
		if !v.IsNull() && v.ToBoolean() {
			keep = append(keep, i)
		}
	}
	return b.SelectRows(keep), nil
}
