package storage

import (
	"fmt"

	"github.com/google/btree"
	"github.com/sasha-s/go-deadlock"

	"github.com/ryogrid/VimanaDB/lib/common"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
	"github.com/ryogrid/VimanaDB/lib/types"
)

// heapRow is one materialized row of a table heap, ordered by row id.
type heapRow struct {
	rowID  uint64
	values []types.Value
}

func heapRowLess(a, b *heapRow) bool { return a.rowID < b.rowID }

type tableHeap struct {
	columns   []string
	tree      *btree.BTreeG[*heapRow]
	nextRowID uint64
}

// StorageEngine is the batch producing/consuming service behind scans,
// inserts and deletes: an in-memory table heap per table, rows keyed by a
// monotonically assigned row id. Reads surface the row id as the implicit
// common.RowIDColumn column so downstream operators (vector index scans in
// particular) can join against it.
type StorageEngine struct {
	mutex  deadlock.RWMutex
	tables map[string]*tableHeap
}

func NewStorageEngine() *StorageEngine {
	return &StorageEngine{tables: make(map[string]*tableHeap)}
}

func (s *StorageEngine) CreateTable(name string, columns []string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.tables[name]; exists {
		return fmt.Errorf("storage: table %s already exists", name)
	}
	s.tables[name] = &tableHeap{
		columns: columns,
		tree:    btree.NewG[*heapRow](common.TableHeapBTreeDegree, heapRowLess),
	}
	return nil
}

func (s *StorageEngine) DropTable(name string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.tables[name]; !exists {
		return fmt.Errorf("storage: table %s does not exist", name)
	}
	delete(s.tables, name)
	return nil
}

func (s *StorageEngine) HasTable(name string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	_, exists := s.tables[name]
	return exists
}

// Write appends the rows of one batch. The batch column layout must match
// the table (the implicit row id column, if present, is ignored and
// reassigned).
func (s *StorageEngine) Write(table string, b *batch.Batch) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	th, exists := s.tables[table]
	if !exists {
		return fmt.Errorf("storage: table %s does not exist", table)
	}
	colIdxs := make([]int, len(th.columns))
	for i, col := range th.columns {
		ci := b.ColumnIndex(col)
		if ci < 0 {
			return fmt.Errorf("storage: batch misses column %s of table %s", col, table)
		}
		colIdxs[i] = ci
	}
	for ri := 0; ri < b.NumRows(); ri++ {
		values := make([]types.Value, len(colIdxs))
		for i, ci := range colIdxs {
			values[i] = b.GetValue(ri, ci)
		}
		th.tree.ReplaceOrInsert(&heapRow{rowID: th.nextRowID, values: values})
		th.nextRowID++
	}
	return nil
}

// Read snapshots the table and returns a pull iterator yielding batches of
// at most batchRows rows each. The output column layout is the row id
// column followed by the table columns.
func (s *StorageEngine) Read(table string, batchRows int) (*BatchIterator, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	th, exists := s.tables[table]
	if !exists {
		return nil, fmt.Errorf("storage: table %s does not exist", table)
	}
	if batchRows <= 0 {
		batchRows = common.BatchRowsDefault
	}
	rows := make([]*heapRow, 0, th.tree.Len())
	th.tree.Ascend(func(r *heapRow) bool {
		rows = append(rows, r)
		return true
	})
	columns := make([]string, 0, len(th.columns)+1)
	columns = append(columns, common.RowIDColumn)
	columns = append(columns, th.columns...)
	return &BatchIterator{columns: columns, rows: rows, batchRows: batchRows}, nil
}

// DeleteRows removes the given row ids, returning how many were present.
func (s *StorageEngine) DeleteRows(table string, rowIDs []uint64) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	th, exists := s.tables[table]
	if !exists {
		return 0, fmt.Errorf("storage: table %s does not exist", table)
	}
	deleted := 0
	for _, id := range rowIDs {
		if _, found := th.tree.Delete(&heapRow{rowID: id}); found {
			deleted++
		}
	}
	return deleted, nil
}

func (s *StorageEngine) RowCount(table string) (uint64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	th, exists := s.tables[table]
	if !exists {
		return 0, fmt.Errorf("storage: table %s does not exist", table)
	}
	return uint64(th.tree.Len()), nil
}

// BatchIterator yields the snapshot taken by Read, one batch per call.
// It is single pass and not restartable, like every batch source of the
// execution engine.
type BatchIterator struct {
	columns   []string
	rows      []*heapRow
	batchRows int
	pos       int
}

func (it *BatchIterator) Columns() []string { return it.columns }

func (it *BatchIterator) Next() (*batch.Batch, bool, error) {
	if it.pos >= len(it.rows) {
		return nil, true, nil
	}
	end := it.pos + it.batchRows
	if end > len(it.rows) {
		end = len(it.rows)
	}
	out := batch.New(it.columns)
	for _, r := range it.rows[it.pos:end] {
		row := make([]types.Value, 0, len(it.columns))
		row = append(row, types.NewInteger(int64(r.rowID)))
		row = append(row, r.values...)
		out.AppendRow(row)
	}
	it.pos = end
	return out, false, nil
}
