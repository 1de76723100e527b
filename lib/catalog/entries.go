package catalog

import (
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
	"github.com/ryogrid/VimanaDB/lib/types"
)

// UDF is the runtime shape of a user defined function: batch in, batch
// out. Model inference wrappers, feature extractors and similarity
// helpers all take this form. Implementations are registered at process
// start; the catalog persists only their metadata.
type UDF func(input *batch.Batch) (*batch.Batch, error)

type ColumnDef struct {
	Name string
	Type types.TypeID
}

type TableCatalogEntry struct {
	Name     string
	Columns  []ColumnDef
	RowCount uint64
}

type FunctionCatalogEntry struct {
	Name string
	// Deterministic marks functions whose output depends only on the
	// input batch, which makes their expressions safe to reuse.
	Deterministic bool
	Impl          UDF
}

type IndexCatalogEntry struct {
	Name          string
	TableName     string
	FeatureColumn string
	// FunctionName is the feature extractor evaluated over FeatureColumn
	// when the index was built.
	FunctionName string
	SaveFilePath string
	Dim          int
}
