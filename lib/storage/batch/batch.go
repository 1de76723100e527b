package batch

import (
	"sort"

	"github.com/ryogrid/VimanaDB/lib/types"
)

// Batch is the columnar unit of data flow between executors: an ordered
// sequence of rows over named, ordered columns. A batch is not persisted
// and lives for exactly one pull.
type Batch struct {
	columns []string
	rows    [][]types.Value
}

func New(columns []string) *Batch {
	return &Batch{columns: columns, rows: make([][]types.Value, 0)}
}

func NewWithRows(columns []string, rows [][]types.Value) *Batch {
	return &Batch{columns: columns, rows: rows}
}

func (b *Batch) Columns() []string { return b.columns }
func (b *Batch) NumRows() int      { return len(b.rows) }
func (b *Batch) NumCols() int      { return len(b.columns) }

// ColumnIndex returns -1 when the column is absent.
func (b *Batch) ColumnIndex(name string) int {
	for i, c := range b.columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (b *Batch) Row(idx int) []types.Value { return b.rows[idx] }

func (b *Batch) GetValue(rowIdx int, colIdx int) types.Value {
	return b.rows[rowIdx][colIdx]
}

func (b *Batch) AppendRow(row []types.Value) {
	b.rows = append(b.rows, row)
}

// Project returns a new batch holding only the given columns, in the
// given order. Row count and order are preserved.
func (b *Batch) Project(colIdxs []int) *Batch {
	cols := make([]string, len(colIdxs))
	for i, ci := range colIdxs {
		cols[i] = b.columns[ci]
	}
	rows := make([][]types.Value, len(b.rows))
	for ri, row := range b.rows {
		newRow := make([]types.Value, len(colIdxs))
		for i, ci := range colIdxs {
			newRow[i] = row[ci]
		}
		rows[ri] = newRow
	}
	return NewWithRows(cols, rows)
}

// SelectRows returns a new batch holding only the rows at the given
// indexes, in the given order. Column layout is preserved, so a filter
// that matches nothing still yields a (zero row) batch.
func (b *Batch) SelectRows(rowIdxs []int) *Batch {
	rows := make([][]types.Value, len(rowIdxs))
	for i, ri := range rowIdxs {
		rows[i] = b.rows[ri]
	}
	return NewWithRows(b.columns, rows)
}

// HorizontalMerge glues another batch with the same row count onto the
// right of this one.
func (b *Batch) HorizontalMerge(other *Batch) *Batch {
	cols := make([]string, 0, len(b.columns)+len(other.columns))
	cols = append(cols, b.columns...)
	cols = append(cols, other.columns...)
	rows := make([][]types.Value, len(b.rows))
	for ri := range b.rows {
		row := make([]types.Value, 0, len(cols))
		row = append(row, b.rows[ri]...)
		row = append(row, other.rows[ri]...)
		rows[ri] = row
	}
	return NewWithRows(cols, rows)
}

// Concat appends the rows of all batches (which must share a column
// layout) into one batch. Used by blocking operators which are allowed to
// coalesce input batch boundaries.
func Concat(batches []*Batch) *Batch {
	if len(batches) == 0 {
		return New(nil)
	}
	out := New(batches[0].columns)
	for _, bt := range batches {
		out.rows = append(out.rows, bt.rows...)
	}
	return out
}

// SortBy reorders rows by the given key columns. A stable sort keeps the
// result deterministic for equal keys.
func (b *Batch) SortBy(colIdxs []int, desc []bool) {
	sort.SliceStable(b.rows, func(i, j int) bool {
		for k, ci := range colIdxs {
			lv := b.rows[i][ci]
			rv := b.rows[j][ci]
			if lv.CompareEquals(rv) {
				continue
			}
			if desc[k] {
				return rv.CompareLessThan(lv)
			}
			return lv.CompareLessThan(rv)
		}
		return false
	})
}
