package types

type TypeID int

// Every value flowing through a batch has one of these types. Tensor covers
// decoded frames and embeddings alike (flat float32 payload plus shape).
const (
	Invalid TypeID = iota
	Boolean
	Integer
	Float
	Varchar
	Tensor
	Null
)

func (t TypeID) String() string {
	switch t {
	case Boolean:
		return "BOOLEAN"
	case Integer:
		return "INTEGER"
	case Float:
		return "FLOAT"
	case Varchar:
		return "VARCHAR"
	case Tensor:
		return "TENSOR"
	case Null:
		return "NULL"
	}
	return "INVALID"
}

func TypeIDFromString(s string) TypeID {
	switch s {
	case "BOOLEAN":
		return Boolean
	case "INTEGER":
		return Integer
	case "FLOAT":
		return Float
	case "VARCHAR":
		return Varchar
	case "TENSOR":
		return Tensor
	case "NULL":
		return Null
	}
	return Invalid
}
