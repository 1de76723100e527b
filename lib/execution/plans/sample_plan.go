package plans

import (
	"fmt"

	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// SamplePlanNode keeps every Rate-th row of its input. Row positions are
// counted across the whole stream, not per batch.
type SamplePlanNode struct {
	*AbstractPlanNode
	Rate int
}

func NewSamplePlanNode(rate int, child Plan) *SamplePlanNode {
	var children []operators.Operator
	if child != nil {
		children = []operators.Operator{child}
	}
	return &SamplePlanNode{NewAbstractPlanNode(operators.Sample, children), rate}
}

func (p *SamplePlanNode) Signature() string {
	return fmt.Sprintf("sample[%d]", p.Rate)
}

func (p *SamplePlanNode) GetDebugStr() string {
	return fmt.Sprintf("Sample(%d)", p.Rate)
}
