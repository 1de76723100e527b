package memo

// PropertyType is the physical property a caller requires of a group's
// best plan. Only the default property is in use; distribution and sort
// properties would extend this enum.
type PropertyType int

const (
	PropertyDefault PropertyType = iota
)
