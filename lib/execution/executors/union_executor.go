package executors

import (
	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
)

// UnionExecutor concatenates its children's streams in child order,
// forwarding each child batch as is.
type UnionExecutor struct {
	plan     *plans.UnionPlanNode
	children []Executor
	cur      int
}

func NewUnionExecutor(plan *plans.UnionPlanNode, children []Executor) *UnionExecutor {
	return &UnionExecutor{plan: plan, children: children}
}

func (e *UnionExecutor) Init() error {
	for _, c := range e.children {
		if err := c.Init(); err != nil {
			return err
		}
	}
	return nil
}

func (e *UnionExecutor) Next() (*batch.Batch, Done, error) {
	for e.cur < len(e.children) {
		b, done, err := e.children[e.cur].Next()
		if err != nil {
			return nil, false, err
		}
		if done {
			e.cur++
			continue
		}
		return b, false, nil
	}
	return nil, true, nil
}
