package operators

type AggregationType int

const (
	COUNT AggregationType = iota
	SUM
	MIN
	MAX
	AVG
)

func (t AggregationType) String() string {
	switch t {
	case COUNT:
		return "COUNT"
	case SUM:
		return "SUM"
	case MIN:
		return "MIN"
	case MAX:
		return "MAX"
	case AVG:
		return "AVG"
	}
	return "?"
}

type OrderbyType int

const (
	ASC OrderbyType = iota
	DESC
)

func (t OrderbyType) String() string {
	if t == DESC {
		return "DESC"
	}
	return "ASC"
}
