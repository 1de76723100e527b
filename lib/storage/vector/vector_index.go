package vector

// The nearest-neighbor service consumed by vector index scans and index
// builds. Backends are pluggable; the engine only relies on this narrow
// surface.

type FeaturePayload struct {
	ID        uint64
	Embedding []float32
}

type IndexQuery struct {
	Embedding []float32
	TopK      int
}

type QueryResult struct {
	IDs       []uint64
	Distances []float32
}

type VectorIndex interface {
	Create(dim int) error
	Add(payload []FeaturePayload) error
	Persist() error
	Query(query IndexQuery) (QueryResult, error)
	Delete() error
}
