package catalog

import (
	"path/filepath"
	"testing"

	"github.com/ryogrid/VimanaDB/lib/storage/batch"
	testing_assert "github.com/ryogrid/VimanaDB/lib/testing/testing_assert"
	"github.com/ryogrid/VimanaDB/lib/types"
)

func TestCatalogEntriesSurviveReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	c, err := NewCatalog(dbPath)
	testing_assert.NoError(t, err)
	testing_assert.NoError(t, c.CreateTableCatalogEntry(&TableCatalogEntry{
		Name: "videos",
		Columns: []ColumnDef{
			{Name: "id", Type: types.Integer},
			{Name: "data", Type: types.Tensor},
		},
	}))
	testing_assert.NoError(t, c.CreateIndexCatalogEntry(&IndexCatalogEntry{
		Name:          "idx_videos_data",
		TableName:     "videos",
		FeatureColumn: "data",
		FunctionName:  "Extract",
		SaveFilePath:  "idx.vidx",
		Dim:           4,
	}))
	testing_assert.NoError(t, c.RegisterFunction("Extract", true, nil))
	testing_assert.NoError(t, c.Close())

	c2, err := NewCatalog(dbPath)
	testing_assert.NoError(t, err)
	defer c2.Close()

	tbl := c2.GetTableCatalogEntry("videos")
	testing_assert.Assert(t, tbl != nil, "table entry should survive reopen")
	testing_assert.Equals(t, 2, len(tbl.Columns))
	testing_assert.Equals(t, types.Tensor, tbl.Columns[1].Type)

	idx := c2.GetIndexCatalogEntryByName("idx_videos_data")
	testing_assert.Assert(t, idx != nil, "index entry should survive reopen")
	testing_assert.Equals(t, 4, idx.Dim)

	fn := c2.GetFunctionCatalogEntryByName("Extract")
	testing_assert.Assert(t, fn != nil, "function entry should survive reopen")
	testing_assert.Assert(t, fn.Impl == nil, "implementations are process state, not persisted")
}

func TestRegisterFunctionRebindsImplementation(t *testing.T) {
	c, err := NewCatalog("")
	testing_assert.NoError(t, err)
	defer c.Close()

	impl := func(in *batch.Batch) (*batch.Batch, error) { return in, nil }
	testing_assert.NoError(t, c.RegisterFunction("Echo", true, nil))
	testing_assert.NoError(t, c.RegisterFunction("Echo", true, impl))

	fn := c.GetFunctionCatalogEntryByName("Echo")
	testing_assert.Assert(t, fn != nil && fn.Impl != nil, "re-registration should bind the implementation")
}

func TestLookupIndexByFeature(t *testing.T) {
	c, err := NewCatalog("")
	testing_assert.NoError(t, err)
	defer c.Close()

	testing_assert.NoError(t, c.CreateIndexCatalogEntry(&IndexCatalogEntry{
		Name: "idx1", TableName: "videos", FeatureColumn: "data",
		FunctionName: "Extract", SaveFilePath: "idx1.vidx", Dim: 3,
	}))

	testing_assert.Assert(t, c.LookupIndexByFeature("Extract", "data") != nil,
		"matching function and column should find the index")
	testing_assert.Assert(t, c.LookupIndexByFeature("Other", "data") == nil,
		"a different function must not match")
	testing_assert.Assert(t, c.LookupIndexByFeature("Extract", "other") == nil,
		"a different column must not match")
}

func TestAbsentEntriesReturnNil(t *testing.T) {
	c, err := NewCatalog("")
	testing_assert.NoError(t, err)
	defer c.Close()

	testing_assert.Assert(t, c.GetTableCatalogEntry("nope") == nil, "absent table should be nil")
	testing_assert.Assert(t, c.GetFunctionCatalogEntryByName("nope") == nil, "absent function should be nil")
	testing_assert.Assert(t, c.GetIndexCatalogEntryByName("nope") == nil, "absent index should be nil")
}
