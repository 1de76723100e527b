package executors

import (
	"fmt"

	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
	"github.com/ryogrid/VimanaDB/lib/storage/vector"
	"github.com/ryogrid/VimanaDB/lib/types"
)

// VectorIndexScanExecutor asks the vector index for the top-k row ids
// closest to the query embedding, drains its child and emits the
// matching rows as one batch ordered by rank. Rows whose ids the child
// did not produce (deleted since indexing) are skipped.
type VectorIndexScanExecutor struct {
	plan     *plans.VectorIndexScanPlanNode
	child    Executor
	ctx      *ExecutorContext
	index    *vector.FlatIndex
	finished bool
}

func NewVectorIndexScanExecutor(plan *plans.VectorIndexScanPlanNode,
	child Executor, ctx *ExecutorContext) *VectorIndexScanExecutor {
	return &VectorIndexScanExecutor{plan: plan, child: child, ctx: ctx}
}

func (e *VectorIndexScanExecutor) Init() error {
	entry := e.ctx.Catalog().GetIndexCatalogEntryByName(e.plan.IndexName)
	if entry == nil {
		return fmt.Errorf("index %s does not exist", e.plan.IndexName)
	}
	idx, err := vector.OpenFlatIndex(entry.SaveFilePath)
	if err != nil {
		return err
	}
	e.index = idx
	return e.child.Init()
}

func (e *VectorIndexScanExecutor) Next() (*batch.Batch, Done, error) {
	if e.finished {
		return nil, true, nil
	}
	e.finished = true

	dummy := batch.NewWithRows([]string{"0"}, [][]types.Value{{types.NewInteger(0)}})
	qv, err := e.plan.QueryExpr.Evaluate(dummy)
	if err != nil {
		return nil, false, err
	}
	if len(qv) == 0 {
		return nil, false, fmt.Errorf("index query expression produced no embedding")
	}
	result, err := e.index.Query(vector.IndexQuery{
		Embedding: qv[0].ToTensor(),
		TopK:      int(e.plan.Limit),
	})
	if err != nil {
		return nil, false, err
	}

	var all []*batch.Batch
	for {
		b, done, err := e.child.Next()
		if err != nil {
			return nil, false, err
		}
		if done {
			break
		}
		all = append(all, b)
	}
	input := batch.Concat(all)
	ridIdx := rowIDColumnIndex(input)
	if ridIdx < 0 {
		return nil, false, fmt.Errorf("index scan input carries no row id column")
	}
	byID := make(map[uint64]int, input.NumRows())
	for r := 0; r < input.NumRows(); r++ {
		byID[uint64(input.GetValue(r, ridIdx).ToInteger())] = r
	}
	var keep []int
	for _, id := range result.IDs {
		if r, ok := byID[id]; ok {
			keep = append(keep, r)
		}
	}
	return input.SelectRows(keep), false, nil
}
