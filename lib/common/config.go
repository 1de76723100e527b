package common

import "time"

// use on memory virtual storage for vector index persistence or not
const EnableOnMemStorage = true

const (
	// default number of rows packed into one batch by the storage engine
	BatchRowsDefault = 256
	// wall-clock budget for one optimizer Build call
	OptimizerTimeoutDefault = 60 * time.Second
	// upper bound on rewrite rule firings at a single node within one stage
	MaxRewriteIterations = 64
	// capacity of the input/output queues of an EXCHANGE stage
	ExchangeQueueCapacity = 4
	// number of worker pipelines an EXCHANGE stage fans out to
	ExchangeParallelismDefault = 2
	// degree of the btree backing an in-memory table heap
	TableHeapBTreeDegree = 32

	ActiveLogKindSetting = INFO | WARN | ERROR | FATAL
)

// name of the implicit row identifier column emitted by the storage engine
const RowIDColumn = "_row_id"
