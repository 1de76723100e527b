package storage

import (
	"testing"

	"github.com/ryogrid/VimanaDB/lib/common"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
	testing_assert "github.com/ryogrid/VimanaDB/lib/testing/testing_assert"
	"github.com/ryogrid/VimanaDB/lib/types"
)

func writeRows(t *testing.T, s *StorageEngine, table string, vals ...int64) {
	t.Helper()
	b := batch.New([]string{"id"})
	for _, v := range vals {
		b.AppendRow([]types.Value{types.NewInteger(v)})
	}
	testing_assert.NoError(t, s.Write(table, b))
}

func readAll(t *testing.T, s *StorageEngine, table string, batchRows int) []*batch.Batch {
	t.Helper()
	it, err := s.Read(table, batchRows)
	testing_assert.NoError(t, err)
	var out []*batch.Batch
	for {
		b, done, err := it.Next()
		testing_assert.NoError(t, err)
		if done {
			return out
		}
		out = append(out, b)
	}
}

func TestReadChunksByBatchRows(t *testing.T) {
	s := NewStorageEngine()
	testing_assert.NoError(t, s.CreateTable("frames", []string{"id"}))
	writeRows(t, s, "frames", 1, 2, 3, 4, 5)

	out := readAll(t, s, "frames", 2)
	testing_assert.Equals(t, 3, len(out))
	testing_assert.Equals(t, 2, out[0].NumRows())
	testing_assert.Equals(t, 1, out[2].NumRows())
	testing_assert.Equals(t, common.RowIDColumn, out[0].Columns()[0])
	testing_assert.Equals(t, "id", out[0].Columns()[1])
}

func TestDeleteRowsByRowID(t *testing.T) {
	s := NewStorageEngine()
	testing_assert.NoError(t, s.CreateTable("frames", []string{"id"}))
	writeRows(t, s, "frames", 10, 20, 30)

	out := readAll(t, s, "frames", 0)
	var rowIDs []uint64
	for _, b := range out {
		for r := 0; r < b.NumRows(); r++ {
			if b.GetValue(r, 1).ToInteger() != 20 {
				rowIDs = append(rowIDs, uint64(b.GetValue(r, 0).ToInteger()))
			}
		}
	}
	deleted, err := s.DeleteRows("frames", rowIDs)
	testing_assert.NoError(t, err)
	testing_assert.Equals(t, 2, deleted)

	count, err := s.RowCount("frames")
	testing_assert.NoError(t, err)
	testing_assert.Equals(t, uint64(1), count)

	remaining := readAll(t, s, "frames", 0)
	testing_assert.Equals(t, int64(20), remaining[0].GetValue(0, 1).ToInteger())
}

func TestReadSnapshotIgnoresLaterWrites(t *testing.T) {
	s := NewStorageEngine()
	testing_assert.NoError(t, s.CreateTable("frames", []string{"id"}))
	writeRows(t, s, "frames", 1, 2)

	it, err := s.Read("frames", 1)
	testing_assert.NoError(t, err)
	writeRows(t, s, "frames", 3)

	rows := 0
	for {
		b, done, err := it.Next()
		testing_assert.NoError(t, err)
		if done {
			break
		}
		rows += b.NumRows()
	}
	testing_assert.Equals(t, 2, rows)
}

func TestWriteMatchesColumnsByName(t *testing.T) {
	s := NewStorageEngine()
	testing_assert.NoError(t, s.CreateTable("frames", []string{"id", "label"}))
	b := batch.New([]string{"label", "id"})
	b.AppendRow([]types.Value{types.NewVarchar("cat"), types.NewInteger(1)})
	testing_assert.NoError(t, s.Write("frames", b))

	out := readAll(t, s, "frames", 0)
	testing_assert.Equals(t, int64(1), out[0].GetValue(0, 1).ToInteger())
	testing_assert.Equals(t, "cat", out[0].GetValue(0, 2).ToVarchar())
}
