package memo

import (
	pair "github.com/notEpsilon/go-pair"
)

// Group is an equivalence class of expressions producing the same rows.
// Winners record the cheapest physical expression found so far per
// required property.
type Group struct {
	ID      int
	Exprs   []*GroupExpression
	winners map[PropertyType]pair.Pair[float64, *GroupExpression]
}

func newGroup(id int) *Group {
	return &Group{
		ID:      id,
		winners: make(map[PropertyType]pair.Pair[float64, *GroupExpression]),
	}
}

func (g *Group) LogicalExprs() []*GroupExpression {
	var ret []*GroupExpression
	for _, ge := range g.Exprs {
		if ge.IsLogical() {
			ret = append(ret, ge)
		}
	}
	return ret
}

func (g *Group) PhysicalExprs() []*GroupExpression {
	var ret []*GroupExpression
	for _, ge := range g.Exprs {
		if !ge.IsLogical() {
			ret = append(ret, ge)
		}
	}
	return ret
}

// RecordWinnerIfBetter installs expr as the group's best plan for the
// property when it is strictly cheaper than the current winner. Ties keep
// the incumbent, so repeating the search never flips the result.
func (g *Group) RecordWinnerIfBetter(prop PropertyType, cost float64, expr *GroupExpression) bool {
	cur, ok := g.winners[prop]
	if ok && cur.First <= cost {
		return false
	}
	g.winners[prop] = pair.Pair[float64, *GroupExpression]{First: cost, Second: expr}
	return true
}

func (g *Group) Winner(prop PropertyType) (*GroupExpression, float64, bool) {
	cur, ok := g.winners[prop]
	if !ok {
		return nil, 0, false
	}
	return cur.Second, cur.First, true
}

func (g *Group) HasWinner(prop PropertyType) bool {
	_, ok := g.winners[prop]
	return ok
}
