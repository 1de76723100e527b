package expression

import (
	"fmt"

	"github.com/ryogrid/VimanaDB/lib/storage/batch"
	"github.com/ryogrid/VimanaDB/lib/types"
)

// Expression evaluates to one column of values over a batch (one value
// per input row). Expressions are immutable once built; operator nodes
// carry them as attributes.
type Expression interface {
	Evaluate(b *batch.Batch) ([]types.Value, error)
	String() string
}

type ColumnValue struct {
	colName string
}

func NewColumnValue(colName string) *ColumnValue {
	return &ColumnValue{colName: colName}
}

func (e *ColumnValue) ColumnName() string { return e.colName }

func (e *ColumnValue) Evaluate(b *batch.Batch) ([]types.Value, error) {
	ci := b.ColumnIndex(e.colName)
	if ci < 0 {
		return nil, fmt.Errorf("column %s not found in batch %v", e.colName, b.Columns())
	}
	out := make([]types.Value, b.NumRows())
	for ri := 0; ri < b.NumRows(); ri++ {
		out[ri] = b.GetValue(ri, ci)
	}
	return out, nil
}

func (e *ColumnValue) String() string { return e.colName }

type ConstantValue struct {
	value types.Value
}

func NewConstantValue(value types.Value) *ConstantValue {
	return &ConstantValue{value: value}
}

func (e *ConstantValue) Value() types.Value { return e.value }

func (e *ConstantValue) Evaluate(b *batch.Batch) ([]types.Value, error) {
	out := make([]types.Value, b.NumRows())
	for ri := range out {
		out[ri] = e.value
	}
	return out, nil
}

func (e *ConstantValue) String() string { return e.value.String() }
