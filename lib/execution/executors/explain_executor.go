package executors

import (
	"errors"
	"strings"

	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/storage/batch"
	"github.com/ryogrid/VimanaDB/lib/types"
)

var errNoExchangeInput = errors.New("queue scan outside of an exchange")

// ExplainExecutor renders the child plan tree as text, one node per
// row. The child subtree never runs.
type ExplainExecutor struct {
	plan     *plans.ExplainPlanNode
	finished bool
}

func NewExplainExecutor(plan *plans.ExplainPlanNode) *ExplainExecutor {
	return &ExplainExecutor{plan: plan}
}

func (e *ExplainExecutor) Init() error {
	return nil
}

func (e *ExplainExecutor) Next() (*batch.Batch, Done, error) {
	if e.finished {
		return nil, true, nil
	}
	e.finished = true

	rendered := plans.DebugTreeString(e.plan.GetChildAt(0))
	out := batch.New([]string{"query plan"})
	for _, line := range strings.Split(strings.TrimRight(rendered, "\n"), "\n") {
		out.AppendRow([]types.Value{types.NewVarchar(line)})
	}
	return out, false, nil
}
