package batch

import (
	"testing"

	testing_assert "github.com/ryogrid/VimanaDB/lib/testing/testing_assert"
	"github.com/ryogrid/VimanaDB/lib/types"
)

func twoColBatch() *Batch {
	return NewWithRows([]string{"id", "name"}, [][]types.Value{
		{types.NewInteger(1), types.NewVarchar("a")},
		{types.NewInteger(2), types.NewVarchar("b")},
		{types.NewInteger(3), types.NewVarchar("c")},
	})
}

func TestSelectRowsKeepsColumnsOnEmptySelection(t *testing.T) {
	b := twoColBatch()
	out := b.SelectRows(nil)
	testing_assert.Equals(t, 0, out.NumRows())
	testing_assert.Equals(t, 2, out.NumCols())
	testing_assert.Equals(t, 0, out.ColumnIndex("id"))
}

func TestSelectRowsPreservesRequestedOrder(t *testing.T) {
	b := twoColBatch()
	out := b.SelectRows([]int{2, 0})
	testing_assert.Equals(t, int64(3), out.GetValue(0, 0).ToInteger())
	testing_assert.Equals(t, int64(1), out.GetValue(1, 0).ToInteger())
}

func TestProjectReordersColumns(t *testing.T) {
	b := twoColBatch()
	out := b.Project([]int{1, 0})
	testing_assert.Equals(t, "name", out.Columns()[0])
	testing_assert.Equals(t, "a", out.GetValue(0, 0).ToVarchar())
	testing_assert.Equals(t, int64(1), out.GetValue(0, 1).ToInteger())
}

func TestHorizontalMergeGluesColumns(t *testing.T) {
	left := twoColBatch()
	right := NewWithRows([]string{"label"}, [][]types.Value{
		{types.NewVarchar("x")},
		{types.NewVarchar("y")},
		{types.NewVarchar("z")},
	})
	out := left.HorizontalMerge(right)
	testing_assert.Equals(t, 3, out.NumCols())
	testing_assert.Equals(t, 3, out.NumRows())
	testing_assert.Equals(t, "z", out.GetValue(2, out.ColumnIndex("label")).ToVarchar())
}

func TestConcatCoalescesBoundaries(t *testing.T) {
	a := twoColBatch()
	empty := New([]string{"id", "name"})
	out := Concat([]*Batch{a, empty, twoColBatch()})
	testing_assert.Equals(t, 6, out.NumRows())
	testing_assert.Equals(t, int64(1), out.GetValue(3, 0).ToInteger())
}

func TestConcatOfNothingIsEmpty(t *testing.T) {
	out := Concat(nil)
	testing_assert.Equals(t, 0, out.NumRows())
	testing_assert.Equals(t, 0, out.NumCols())
}
