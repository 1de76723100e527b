package plans

import (
	"fmt"

	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// ExchangePlanNode fans its child's batches out to Parallelism workers,
// each running its own copy of the Inner plan, and funnels the worker
// outputs back into a single stream. Output order is not deterministic.
//
// Inner is an attribute, not a child: the memo must not explore it, and
// each worker builds a private executor tree from it at runtime. The
// Inner plan reads its input through a QueueScanPlanNode leaf.
type ExchangePlanNode struct {
	*AbstractPlanNode
	Parallelism int
	Inner       Plan
}

func NewExchangePlanNode(parallelism int, inner Plan, child Plan) *ExchangePlanNode {
	var children []operators.Operator
	if child != nil {
		children = []operators.Operator{child}
	}
	return &ExchangePlanNode{NewAbstractPlanNode(operators.Exchange, children), parallelism, inner}
}

func (p *ExchangePlanNode) Signature() string {
	return fmt.Sprintf("exchange[%d|%s]", p.Parallelism, p.Inner.Signature())
}

func (p *ExchangePlanNode) GetDebugStr() string {
	return fmt.Sprintf("Exchange(%d x %s)", p.Parallelism, p.Inner.GetDebugStr())
}

// QueueScanPlanNode is the leaf of an exchange worker's inner plan. Its
// executor pulls batches from the queue the exchange feeds.
type QueueScanPlanNode struct {
	*AbstractPlanNode
}

func NewQueueScanPlanNode() *QueueScanPlanNode {
	return &QueueScanPlanNode{NewAbstractPlanNode(operators.QueueScan, nil)}
}

func (p *QueueScanPlanNode) Signature() string { return "queue_scan" }

func (p *QueueScanPlanNode) GetDebugStr() string { return "QueueScan" }
