package table

import "strings"

// CellType is the closed enumeration of types a column may declare in its
// type-tag row. Unknown tags are not representable; the validator warns
// about them and the compiler falls back to TypeString.
type CellType int

const (
	TypeString CellType = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeList
	TypeJSON
	TypeYAML
)

var cellTypeNames = map[CellType]string{
	TypeString: "string",
	TypeInt:    "int",
	TypeFloat:  "float",
	TypeBool:   "bool",
	TypeList:   "list",
	TypeJSON:   "json",
	TypeYAML:   "yaml",
}

var cellTypesByName = map[string]CellType{
	"string": TypeString,
	"int":    TypeInt,
	"float":  TypeFloat,
	"bool":   TypeBool,
	"list":   TypeList,
	"json":   TypeJSON,
	"yaml":   TypeYAML,
}

func (t CellType) String() string {
	if name, ok := cellTypeNames[t]; ok {
		return name
	}
	return "string"
}

// ParseCellType maps a raw type-tag cell onto the enumeration. Tags are
// case-insensitive and whitespace-tolerant. The second result is false for
// tags outside the valid set.
func ParseCellType(tag string) (CellType, bool) {
	t, ok := cellTypesByName[strings.ToLower(strings.TrimSpace(tag))]
	return t, ok
}

// ValidKeyType reports whether t may be declared for the key column. Keys
// must stay directly comparable and printable, so only string and int
// qualify.
func ValidKeyType(t CellType) bool {
	return t == TypeString || t == TypeInt
}
