package expression

// ColumnsReferenced collects every column name a predicate tree touches.
// Used by the filter pushdown rules to decide which join side covers a
// predicate.
func ColumnsReferenced(e Expression) []string {
	var out []string
	var walk func(Expression)
	walk = func(expr Expression) {
		switch v := expr.(type) {
		case *ColumnValue:
			out = append(out, v.ColumnName())
		case *Comparison:
			walk(v.Left())
			walk(v.Right())
		case *LogicalOp:
			walk(v.Left())
			walk(v.Right())
		case *FunctionExpression:
			for _, a := range v.Args() {
				walk(a)
			}
		case *Similarity:
			walk(v.FeatureExpr())
			walk(v.QueryExpr())
		}
	}
	if e != nil {
		walk(e)
	}
	return out
}

// SplitConjunction flattens a tree of ANDs into its leaf predicates.
func SplitConjunction(e Expression) []Expression {
	if lo, ok := e.(*LogicalOp); ok && lo.OpType() == AND {
		return append(SplitConjunction(lo.Left()), SplitConjunction(lo.Right())...)
	}
	if e == nil {
		return nil
	}
	return []Expression{e}
}

// CombineConjunction folds predicates back into a single AND tree.
// Returns nil for an empty slice.
func CombineConjunction(exprs []Expression) Expression {
	var out Expression
	for _, e := range exprs {
		if out == nil {
			out = e
		} else {
			out = NewLogicalOp(out, e, AND)
		}
	}
	return out
}

// EquiJoinKeys extracts (leftColumn, rightColumn) pairs from a
// conjunction of column equality comparisons, given the column names the
// left input covers. The second result reports whether every conjunct was
// such an equality, i.e. whether a hash join can implement the predicate.
func EquiJoinKeys(e Expression, leftCovers func(col string) bool) ([][2]string, bool) {
	var keys [][2]string
	for _, conj := range SplitConjunction(e) {
		cmp, ok := conj.(*Comparison)
		if !ok || cmp.ComparisonType() != Equal {
			return nil, false
		}
		lc, lok := cmp.Left().(*ColumnValue)
		rc, rok := cmp.Right().(*ColumnValue)
		if !lok || !rok {
			return nil, false
		}
		switch {
		case leftCovers(lc.ColumnName()) && !leftCovers(rc.ColumnName()):
			keys = append(keys, [2]string{lc.ColumnName(), rc.ColumnName()})
		case leftCovers(rc.ColumnName()) && !leftCovers(lc.ColumnName()):
			keys = append(keys, [2]string{rc.ColumnName(), lc.ColumnName()})
		default:
			return nil, false
		}
	}
	return keys, len(keys) > 0
}
