package vector

import (
	"testing"

	testing_assert "github.com/ryogrid/VimanaDB/lib/testing/testing_assert"
)

func TestQueryRanksByDistance(t *testing.T) {
	idx := NewFlatIndex("rank_test.vidx")
	defer idx.Delete()
	testing_assert.NoError(t, idx.Create(2))
	testing_assert.NoError(t, idx.Add([]FeaturePayload{
		{ID: 1, Embedding: []float32{0, 0}},
		{ID: 2, Embedding: []float32{3, 4}},
		{ID: 3, Embedding: []float32{1, 1}},
	}))

	res, err := idx.Query(IndexQuery{Embedding: []float32{0, 0}, TopK: 2})
	testing_assert.NoError(t, err)
	testing_assert.Equals(t, 2, len(res.IDs))
	testing_assert.Equals(t, uint64(1), res.IDs[0])
	testing_assert.Equals(t, uint64(3), res.IDs[1])
	testing_assert.Assert(t, res.Distances[0] <= res.Distances[1], "distances must be ascending")
}

func TestPersistAndReopen(t *testing.T) {
	path := "persist_test.vidx"
	idx := NewFlatIndex(path)
	defer idx.Delete()
	testing_assert.NoError(t, idx.Create(3))
	testing_assert.NoError(t, idx.Add([]FeaturePayload{
		{ID: 7, Embedding: []float32{1, 2, 3}},
	}))
	testing_assert.NoError(t, idx.Persist())

	reopened, err := OpenFlatIndex(path)
	testing_assert.NoError(t, err)
	res, err := reopened.Query(IndexQuery{Embedding: []float32{1, 2, 3}, TopK: 1})
	testing_assert.NoError(t, err)
	testing_assert.Equals(t, uint64(7), res.IDs[0])
	testing_assert.Equals(t, 0.0, float64(res.Distances[0]))
}

func TestTopKLargerThanIndexReturnsAll(t *testing.T) {
	idx := NewFlatIndex("topk_test.vidx")
	defer idx.Delete()
	testing_assert.NoError(t, idx.Create(1))
	testing_assert.NoError(t, idx.Add([]FeaturePayload{
		{ID: 1, Embedding: []float32{1}},
		{ID: 2, Embedding: []float32{2}},
	}))

	res, err := idx.Query(IndexQuery{Embedding: []float32{0}, TopK: 10})
	testing_assert.NoError(t, err)
	testing_assert.Equals(t, 2, len(res.IDs))
}
