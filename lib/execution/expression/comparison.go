package expression

import (
	"fmt"

	"github.com/ryogrid/VimanaDB/lib/storage/batch"
	"github.com/ryogrid/VimanaDB/lib/types"
)

type ComparisonType int

const (
	Equal ComparisonType = iota
	NotEqual
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
)

func (t ComparisonType) String() string {
	switch t {
	case Equal:
		return "="
	case NotEqual:
		return "!="
	case LessThan:
		return "<"
	case LessThanOrEqual:
		return "<="
	case GreaterThan:
		return ">"
	case GreaterThanOrEqual:
		return ">="
	}
	return "?"
}

type Comparison struct {
	left     Expression
	right    Expression
	compType ComparisonType
}

func NewComparison(left Expression, right Expression, compType ComparisonType) *Comparison {
	return &Comparison{left: left, right: right, compType: compType}
}

func (e *Comparison) Left() Expression              { return e.left }
func (e *Comparison) Right() Expression             { return e.right }
func (e *Comparison) ComparisonType() ComparisonType { return e.compType }

func (e *Comparison) Evaluate(b *batch.Batch) ([]types.Value, error) {
	lv, err := e.left.Evaluate(b)
	if err != nil {
		return nil, err
	}
	rv, err := e.right.Evaluate(b)
	if err != nil {
		return nil, err
	}
	out := make([]types.Value, b.NumRows())
	for ri := range out {
		var res bool
		switch e.compType {
		case Equal:
			res = lv[ri].CompareEquals(rv[ri])
		case NotEqual:
			res = lv[ri].CompareNotEquals(rv[ri])
		case LessThan:
			res = lv[ri].CompareLessThan(rv[ri])
		case LessThanOrEqual:
			res = lv[ri].CompareLessThanOrEqual(rv[ri])
		case GreaterThan:
			res = lv[ri].CompareGreaterThan(rv[ri])
		case GreaterThanOrEqual:
			res = lv[ri].CompareGreaterThanOrEqual(rv[ri])
		}
		out[ri] = types.NewBoolean(res)
	}
	return out, nil
}

func (e *Comparison) String() string {
	return fmt.Sprintf("(%s %s %s)", e.left.String(), e.compType.String(), e.right.String())
}

type LogicalOpType int

const (
	AND LogicalOpType = iota
	OR
)

type LogicalOp struct {
	left   Expression
	right  Expression
	opType LogicalOpType
}

func NewLogicalOp(left Expression, right Expression, opType LogicalOpType) *LogicalOp {
	return &LogicalOp{left: left, right: right, opType: opType}
}

func (e *LogicalOp) Left() Expression        { return e.left }
func (e *LogicalOp) Right() Expression       { return e.right }
func (e *LogicalOp) OpType() LogicalOpType   { return e.opType }

func (e *LogicalOp) Evaluate(b *batch.Batch) ([]types.Value, error) {
	lv, err := e.left.Evaluate(b)
	if err != nil {
		return nil, err
	}
	rv, err := e.right.Evaluate(b)
	if err != nil {
		return nil, err
	}
	out := make([]types.Value, b.NumRows())
	for ri := range out {
		if e.opType == AND {
			out[ri] = types.NewBoolean(lv[ri].ToBoolean() && rv[ri].ToBoolean())
		} else {
			out[ri] = types.NewBoolean(lv[ri].ToBoolean() || rv[ri].ToBoolean())
		}
	}
	return out, nil
}

func (e *LogicalOp) String() string {
	op := "AND"
	if e.opType == OR {
		op = "OR"
	}
	return fmt.Sprintf("(%s %s %s)", e.left.String(), op, e.right.String())
}
