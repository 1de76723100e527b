package types

import (
	"fmt"
	"strconv"
	"strings"
)

type Value struct {
	valueType TypeID
	integer   int64
	float     float64
	varchar   string
	boolean   bool
	tensor    []float32
	isNull    bool
}

func NewInteger(value int64) Value {
	return Value{valueType: Integer, integer: value}
}

func NewFloat(value float64) Value {
	return Value{valueType: Float, float: value}
}

func NewVarchar(value string) Value {
	return Value{valueType: Varchar, varchar: value}
}

func NewBoolean(value bool) Value {
	return Value{valueType: Boolean, boolean: value}
}

func NewTensor(value []float32) Value {
	return Value{valueType: Tensor, tensor: value}
}

func NewNull() Value {
	return Value{valueType: Null, isNull: true}
}

func (v Value) ValueType() TypeID { return v.valueType }
func (v Value) IsNull() bool      { return v.isNull }

func (v Value) ToInteger() int64 {
	if v.valueType == Float {
		return int64(v.float)
	}
	return v.integer
}

func (v Value) ToFloat() float64 {
	if v.valueType == Integer {
		return float64(v.integer)
	}
	return v.float
}

func (v Value) ToVarchar() string  { return v.varchar }
func (v Value) ToBoolean() bool    { return v.boolean }
func (v Value) ToTensor() []float32 { return v.tensor }

// asNumeric reports whether the value can participate in numeric
// comparison and arithmetic, and its float64 rendering if so.
func (v Value) asNumeric() (float64, bool) {
	switch v.valueType {
	case Integer:
		return float64(v.integer), true
	case Float:
		return v.float, true
	}
	return 0, false
}

func (v Value) CompareEquals(right Value) bool {
	if v.isNull || right.isNull {
		return false
	}
	if lv, ok := v.asNumeric(); ok {
		if rv, ok2 := right.asNumeric(); ok2 {
			return lv == rv
		}
		return false
	}
	switch v.valueType {
	case Varchar:
		return right.valueType == Varchar && v.varchar == right.varchar
	case Boolean:
		return right.valueType == Boolean && v.boolean == right.boolean
	case Tensor:
		if right.valueType != Tensor || len(v.tensor) != len(right.tensor) {
			return false
		}
		for i := range v.tensor {
			if v.tensor[i] != right.tensor[i] {
				return false
			}
		}
		return true
	}
	return false
}

func (v Value) CompareNotEquals(right Value) bool {
	return !v.CompareEquals(right)
}

func (v Value) CompareLessThan(right Value) bool {
	if v.isNull || right.isNull {
		return false
	}
	if lv, ok := v.asNumeric(); ok {
		if rv, ok2 := right.asNumeric(); ok2 {
			return lv < rv
		}
		return false
	}
	if v.valueType == Varchar && right.valueType == Varchar {
		return v.varchar < right.varchar
	}
	return false
}

func (v Value) CompareLessThanOrEqual(right Value) bool {
	return v.CompareLessThan(right) || v.CompareEquals(right)
}

func (v Value) CompareGreaterThan(right Value) bool {
	if v.isNull || right.isNull {
		return false
	}
	if lv, ok := v.asNumeric(); ok {
		if rv, ok2 := right.asNumeric(); ok2 {
			return lv > rv
		}
		return false
	}
	if v.valueType == Varchar && right.valueType == Varchar {
		return v.varchar > right.varchar
	}
	return false
}

func (v Value) CompareGreaterThanOrEqual(right Value) bool {
	return v.CompareGreaterThan(right) || v.CompareEquals(right)
}

// Add is used by SUM/AVG aggregation. Mixed Integer/Float operands widen
// to Float.
func (v Value) Add(right Value) Value {
	if v.valueType == Integer && right.valueType == Integer {
		return NewInteger(v.integer + right.integer)
	}
	lv, lok := v.asNumeric()
	rv, rok := right.asNumeric()
	if lok && rok {
		return NewFloat(lv + rv)
	}
	return NewNull()
}

// String renders the value in a stable form usable as a hash key for
// group-by and join build sides.
func (v Value) String() string {
	if v.isNull {
		return "NULL"
	}
	switch v.valueType {
	case Integer:
		return strconv.FormatInt(v.integer, 10)
	case Float:
		return strconv.FormatFloat(v.float, 'g', -1, 64)
	case Varchar:
		return v.varchar
	case Boolean:
		return strconv.FormatBool(v.boolean)
	case Tensor:
		var sb strings.Builder
		sb.WriteString("[")
		for i, f := range v.tensor {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
		}
		sb.WriteString("]")
		return sb.String()
	}
	return fmt.Sprintf("<invalid:%d>", v.valueType)
}
