package rules

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/ryogrid/VimanaDB/lib/execution/expression"
	"github.com/ryogrid/VimanaDB/lib/planner/memo"
	"github.com/ryogrid/VimanaDB/lib/planner/operators"
)

// groupAliases collects the table and function aliases whose columns a
// group's output can carry. Filter pushdown uses this to decide which
// join side covers a predicate.
func groupAliases(m *memo.Memo, groupID int) mapset.Set[string] {
	out := mapset.NewSet[string]()
	visited := mapset.NewSet[int]()
	var walk func(gid int)
	walk = func(gid int) {
		if visited.Contains(gid) {
			return
		}
		visited.Add(gid)
		for _, ge := range m.GetGroup(gid).Exprs {
			switch op := ge.Op.(type) {
			case *operators.LogicalGetNode:
				out.Add(op.Alias)
			case *operators.LogicalFunctionScanNode:
				out.Add(strings.ToLower(op.FuncExpr.FunctionName()))
			case *operators.LogicalApplyAndMergeNode:
				out.Add(strings.ToLower(op.FuncExpr.FunctionName()))
			}
			for _, cid := range ge.ChildGroupIDs {
				walk(cid)
			}
		}
	}
	walk(groupID)
	return out
}

func columnAlias(col string) string {
	if idx := strings.Index(col, "."); idx >= 0 {
		return col[:idx]
	}
	return ""
}

func bareColumnName(col string) string {
	if idx := strings.LastIndex(col, "."); idx >= 0 {
		return col[idx+1:]
	}
	return col
}

// aliasesCovered reports whether every column the predicate references
// is qualified and belongs to one of the given aliases. Unqualified
// columns never count as covered, so they stay where they are.
func aliasesCovered(pred expression.Expression, aliases mapset.Set[string]) bool {
	cols := expression.ColumnsReferenced(pred)
	if len(cols) == 0 {
		return false
	}
	for _, col := range cols {
		a := columnAlias(col)
		if a == "" || !aliases.Contains(a) {
			return false
		}
	}
	return true
}
