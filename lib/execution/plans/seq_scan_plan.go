package plans

import (
	"fmt"
	"strings"

	"github.com/ryogrid/VimanaDB/lib/execution/expression"
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// SeqScanPlanNode reads a table heap batch by batch. Predicate, column
// projection and sampling folded in by the rewrite stages are applied to
// each batch before it leaves the scan.
type SeqScanPlanNode struct {
	*AbstractPlanNode
	Table       string
	Alias       string
	Predicate   expression.Expression
	ProjectList []string
	SampleRate  int
}

func NewSeqScanPlanNode(table string, alias string, predicate expression.Expression,
	projectList []string, sampleRate int) *SeqScanPlanNode {
	return &SeqScanPlanNode{
		AbstractPlanNode: NewAbstractPlanNode(operators.SeqScan, nil),
		Table:            table,
		Alias:            alias,
		Predicate:        predicate,
		ProjectList:      projectList,
		SampleRate:       sampleRate,
	}
}

func (p *SeqScanPlanNode) Signature() string {
	pred := "-"
	if p.Predicate != nil {
		pred = p.Predicate.String()
	}
	return fmt.Sprintf("seq_scan[%s|%s|pred=%s|proj=%s|sample=%d]",
		p.Table, p.Alias, pred, strings.Join(p.ProjectList, ";"), p.SampleRate)
}

func (p *SeqScanPlanNode) GetDebugStr() string {
	return fmt.Sprintf("SeqScan(%s AS %s)", p.Table, p.Alias)
}
