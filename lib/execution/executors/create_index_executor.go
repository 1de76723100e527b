package executors

import (
	"fmt"

	"github.com/ryogrid/VimanaDB/lib/catalog"
	"github.com/ryogrid/VimanaDB/lib/common"
	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
	"github.com/ryogrid/VimanaDB/lib/storage/vector"
)

// CreateIndexExecutor runs the feature function over every row of the
// table, stores the embeddings keyed by row id in a flat vector index
// and registers the index in the catalog. It emits no batches.
type CreateIndexExecutor struct {
	plan *plans.CreateIndexPlanNode
	ctx  *ExecutorContext
}

func NewCreateIndexExecutor(plan *plans.CreateIndexPlanNode, ctx *ExecutorContext) *CreateIndexExecutor {
	return &CreateIndexExecutor{plan: plan, ctx: ctx}
}

func (e *CreateIndexExecutor) Init() error {
	if e.ctx.Catalog().GetTableCatalogEntry(e.plan.Table) == nil {
		return fmt.Errorf("table %s does not exist", e.plan.Table)
	}
	if e.ctx.Catalog().GetIndexCatalogEntryByName(e.plan.IndexName) != nil {
		return fmt.Errorf("index %s already exists", e.plan.IndexName)
	}
	return nil
}

func (e *CreateIndexExecutor) Next() (*batch.Batch, Done, error) {
	iter, err := e.ctx.Storage().Read(e.plan.Table, common.BatchRowsDefault)
	if err != nil {
		return nil, false, err
	}

	var payloads []vector.FeaturePayload
	dim := e.plan.Dim
	for {
		raw, done, err := iter.Next()
		if err != nil {
			return nil, false, err
		}
		if done {
			break
		}
		qualified := make([]string, len(raw.Columns()))
		for i, c := range raw.Columns() {
			qualified[i] = e.plan.Table + "." + c
		}
		qb := batch.New(qualified)
		for r := 0; r < raw.NumRows(); r++ {
			qb.AppendRow(raw.Row(r))
		}
		embeddings, err := e.plan.FuncExpr.Evaluate(qb)
		if err != nil {
			return nil, false, err
		}
		ridIdx := qb.ColumnIndex(e.plan.Table + "." + common.RowIDColumn)
		for r, ev := range embeddings {
			emb := ev.ToTensor()
			if dim == 0 {
				dim = len(emb)
			}
			if len(emb) != dim {
				return nil, false, fmt.Errorf("embedding dim %d does not match index dim %d", len(emb), dim)
			}
			payloads = append(payloads, vector.FeaturePayload{
				ID:        uint64(qb.GetValue(r, ridIdx).ToInteger()),
				Embedding: emb,
			})
		}
	}

	savePath := e.plan.IndexName + ".vidx"
	idx := vector.NewFlatIndex(savePath)
	if err := idx.Create(dim); err != nil {
		return nil, false, err
	}
	if err := idx.Add(payloads); err != nil {
		return nil, false, err
	}
	if err := idx.Persist(); err != nil {
		return nil, false, err
	}

	entry := &catalog.IndexCatalogEntry{
		Name:          e.plan.IndexName,
		TableName:     e.plan.Table,
		FeatureColumn: e.plan.FeatureColumn,
		FunctionName:  e.plan.FuncExpr.FunctionName(),
		SaveFilePath:  savePath,
		Dim:           dim,
	}
	if err := e.ctx.Catalog().CreateIndexCatalogEntry(entry); err != nil {
		return nil, false, err
	}
	return nil, true, nil
}
