package optimizer

import (
	"github.com/ryogrid/VimanaDB/lib/execution/plans"
	"github.com/ryogrid/VimanaDB/lib/planner/memo"
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// CostModel assigns each physical operator an incremental cost; the
// search adds the best child costs on top. The constants order the
// alternatives the way the executors actually behave: hash joins beat
// nested loops, UDF application dominates everything around it, and a
// vector index scan undercuts sorting the whole table.
type CostModel struct{}

func NewCostModel() *CostModel { return &CostModel{} }

func (cm *CostModel) CalculateCost(expr *memo.GroupExpression) float64 {
	switch expr.Op.GetOpType() {
	case operators.SeqScan:
		return 1.0
	case operators.Predicate, operators.Projection:
		return 0.5
	case operators.HashJoin:
		return 2.0
	case operators.NestedLoopJoin:
		return 5.0
	case operators.ApplyAndMerge, operators.FunctionScan:
		return 10.0
	case operators.Exchange:
		ex := expr.Op.(*plans.ExchangePlanNode)
		return 10.0/float64(ex.Parallelism) + 2.0
	case operators.OrderBy:
		return 3.0
	case operators.GroupBy:
		return 2.0
	case operators.VectorIndexScan:
		return 1.5
	default:
		return 1.0
	}
}
