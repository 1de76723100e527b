package executors

import (
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
)

// Done reports stream exhaustion from Next. A true value means no batch
// was returned now and none will follow.
type Done = bool

// Executor is a pull-based operator instance. Init acquires resources
// and recurses into children; Next yields one output batch per call
// until (nil, true, nil). After an error the executor is dead.
type Executor interface {
	Init() error
	Next() (*batch.Batch, Done, error)
}
