package vector

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/dsnet/golib/memfile"
	"github.com/sasha-s/go-deadlock"

	"github.com/ryogrid/VimanaDB/lib/common"
)

// memFiles holds persisted index images when on-memory storage is
// enabled, keyed by save file path. Mirrors the virtual disk used for
// table storage in test setups.
var memFiles = make(map[string]*memfile.File)
var memFilesMutex deadlock.Mutex

type flatIndexImage struct {
	Dim        int
	IDs        []uint64
	Embeddings [][]float32
}

// FlatIndex is a brute force L2 index: exact, no training step, adequate
// for the scale the executor tests and small video tables need.
type FlatIndex struct {
	mutex      deadlock.Mutex
	path       string
	dim        int
	ids        []uint64
	embeddings [][]float32
}

func NewFlatIndex(path string) *FlatIndex {
	return &FlatIndex{path: path}
}

// OpenFlatIndex loads a persisted index from its save file path.
func OpenFlatIndex(path string) (*FlatIndex, error) {
	var data []byte
	if common.EnableOnMemStorage {
		memFilesMutex.Lock()
		f, exists := memFiles[path]
		memFilesMutex.Unlock()
		if !exists {
			return nil, fmt.Errorf("vector: index file %s does not exist", path)
		}
		data = f.Bytes()
	} else {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("vector: read index file %s: %w", path, err)
		}
	}
	var img flatIndexImage
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&img); err != nil {
		return nil, fmt.Errorf("vector: decode index file %s: %w", path, err)
	}
	return &FlatIndex{path: path, dim: img.Dim, ids: img.IDs, embeddings: img.Embeddings}, nil
}

func (idx *FlatIndex) Create(dim int) error {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()
	if dim <= 0 {
		return fmt.Errorf("vector: invalid dimension %d", dim)
	}
	idx.dim = dim
	idx.ids = idx.ids[:0]
	idx.embeddings = idx.embeddings[:0]
	return nil
}

func (idx *FlatIndex) Add(payload []FeaturePayload) error {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()
	if idx.dim == 0 {
		return errors.New("vector: create an index before adding features")
	}
	for _, row := range payload {
		if len(row.Embedding) != idx.dim {
			return fmt.Errorf("vector: embedding dim %d does not match index dim %d",
				len(row.Embedding), idx.dim)
		}
		idx.ids = append(idx.ids, row.ID)
		emb := make([]float32, idx.dim)
		copy(emb, row.Embedding)
		idx.embeddings = append(idx.embeddings, emb)
	}
	return nil
}

func (idx *FlatIndex) Persist() error {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()
	if idx.dim == 0 {
		return errors.New("vector: create an index before calling persist")
	}
	var buf bytes.Buffer
	img := flatIndexImage{Dim: idx.dim, IDs: idx.ids, Embeddings: idx.embeddings}
	if err := gob.NewEncoder(&buf).Encode(&img); err != nil {
		return fmt.Errorf("vector: encode index %s: %w", idx.path, err)
	}
	if common.EnableOnMemStorage {
		memFilesMutex.Lock()
		memFiles[idx.path] = memfile.New(buf.Bytes())
		memFilesMutex.Unlock()
		return nil
	}
	if err := os.WriteFile(idx.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("vector: write index file %s: %w", idx.path, err)
	}
	return nil
}

func (idx *FlatIndex) Query(query IndexQuery) (QueryResult, error) {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()
	if idx.dim == 0 {
		return QueryResult{}, errors.New("vector: cannot query an index that does not exist")
	}
	if len(query.Embedding) != idx.dim {
		return QueryResult{}, fmt.Errorf("vector: query dim %d does not match index dim %d",
			len(query.Embedding), idx.dim)
	}
	type hit struct {
		id   uint64
		dist float32
	}
	hits := make([]hit, len(idx.ids))
	for i, emb := range idx.embeddings {
		var d float32
		for j := range emb {
			diff := emb[j] - query.Embedding[j]
			d += diff * diff
		}
		hits[i] = hit{id: idx.ids[i], dist: d}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })
	k := query.TopK
	if k > len(hits) {
		k = len(hits)
	}
	res := QueryResult{IDs: make([]uint64, k), Distances: make([]float32, k)}
	for i := 0; i < k; i++ {
		res.IDs[i] = hits[i].id
		res.Distances[i] = hits[i].dist
	}
	return res, nil
}

func (idx *FlatIndex) Delete() error {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()
	if common.EnableOnMemStorage {
		memFilesMutex.Lock()
		delete(memFiles, idx.path)
		memFilesMutex.Unlock()
		return nil
	}
	if err := os.Remove(idx.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
