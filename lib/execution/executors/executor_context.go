package executors

import (
	"github.com/ryogrid/VimanaDB/lib/catalog"
	"github.com/ryogrid/VimanaDB/lib/storage"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
)

// ExecutorContext carries the shared state an executor tree runs
// against. Exchange workers get a derived context pointing their queue
// scans at the worker input channel.
type ExecutorContext struct {
	catalog       *catalog.Catalog
	storage       *storage.StorageEngine
	exchangeInput chan *batch.Batch
}

func NewExecutorContext(cat *catalog.Catalog, st *storage.StorageEngine) *ExecutorContext {
	return &ExecutorContext{catalog: cat, storage: st}
}

func (c *ExecutorContext) Catalog() *catalog.Catalog        { return c.catalog }
func (c *ExecutorContext) Storage() *storage.StorageEngine  { return c.storage }
func (c *ExecutorContext) ExchangeInput() chan *batch.Batch { return c.exchangeInput }

func (c *ExecutorContext) WithExchangeInput(ch chan *batch.Batch) *ExecutorContext {
	clone := *c
	clone.exchangeInput = ch
	return &clone
}
