package cdecl

import (
	"strconv"
	"strings"
)

type Kind int

const (
	PrimitiveKind Kind = iota
	PointerKind
	ArrayKind
	FuncKind
	TagKind
	NamedKind
)

func (k Kind) String() string {
	switch k {
	case PrimitiveKind:
		return "primitive"
	case PointerKind:
		return "pointer"
	case ArrayKind:
		return "array"
	case FuncKind:
		return "function"
	case TagKind:
		return "tag"
	case NamedKind:
		return "named"
	}
	return "unknown kind " + strconv.Itoa(int(k))
}

// Type is a handle to a C type.  Types from the same Context are interned so
// two handles denote the same type if and only if they are equal pointers.
type Type interface {
	ID() int
	Kind() Kind
	String() string
}

// TypeID returns the ID of typ.
func TypeID(typ Type) int {
	return typ.ID()
}

// TypeUnder returns the underlying type of typ with typedef names removed.
func TypeUnder(typ Type) Type {
	for {
		named, ok := typ.(*TypeNamed)
		if !ok {
			return typ
		}
		typ = named.Type
	}
}

type TypePointer struct {
	id   int
	Type Type
}

func NewTypePointer(id int, typ Type) *TypePointer {
	return &TypePointer{id, typ}
}

func (t *TypePointer) ID() int        { return t.id }
func (t *TypePointer) Kind() Kind     { return PointerKind }
func (t *TypePointer) String() string { return FormatDeclarator(t, "") }

// TypeArray is an array of Len elements of Type.  A negative Len denotes
// an array of unknown size, e.g., "int []".
type TypeArray struct {
	id   int
	Type Type
	Len  int
}

func NewTypeArray(id int, typ Type, n int) *TypeArray {
	if n < 0 {
		n = -1
	}
	return &TypeArray{id, typ, n}
}

func (t *TypeArray) ID() int            { return t.id }
func (t *TypeArray) Kind() Kind         { return ArrayKind }
func (t *TypeArray) String() string     { return FormatDeclarator(t, "") }
func (t *TypeArray) IsIncomplete() bool { return t.Len < 0 }

// TypeFunc is a prototyped function type.
type TypeFunc struct {
	id       int
	Params   []Type
	Result   Type
	Variadic bool
}

func NewTypeFunc(id int, params []Type, result Type, variadic bool) *TypeFunc {
	return &TypeFunc{id, params, result, variadic}
}

func (t *TypeFunc) ID() int        { return t.id }
func (t *TypeFunc) Kind() Kind     { return FuncKind }
func (t *TypeFunc) String() string { return FormatDeclarator(t, "") }

// NumParams returns the number of declared parameters, not counting
// a variadic tail.
func (t *TypeFunc) NumParams() int {
	return len(t.Params)
}

// Tag is the keyword introducing a tagged type.
type Tag int

const (
	TagStruct Tag = iota
	TagUnion
	TagClass
	TagEnum
)

func (t Tag) String() string {
	switch t {
	case TagStruct:
		return "struct"
	case TagUnion:
		return "union"
	case TagClass:
		return "class"
	case TagEnum:
		return "enum"
	}
	return "tag(" + strconv.Itoa(int(t)) + ")"
}

// LookupTag returns the Tag for keyword.
func LookupTag(keyword string) (Tag, bool) {
	switch keyword {
	case "struct":
		return TagStruct, true
	case "union":
		return TagUnion, true
	case "class":
		return TagClass, true
	case "enum":
		return TagEnum, true
	}
	return 0, false
}

// TypeTag refers to a struct, union, class, or enum by tag name.  The
// declaration that gives the tag its contents lives in the AST, not here.
type TypeTag struct {
	id   int
	Tag  Tag
	Name string
}

func NewTypeTag(id int, tag Tag, name string) *TypeTag {
	return &TypeTag{id, tag, name}
}

func (t *TypeTag) ID() int        { return t.id }
func (t *TypeTag) Kind() Kind     { return TagKind }
func (t *TypeTag) String() string { return t.Tag.String() + " " + t.Name }

// TypeNamed is a typedef name bound to Type.
type TypeNamed struct {
	id   int
	Name string
	Type Type
}

func NewTypeNamed(id int, name string, typ Type) *TypeNamed {
	return &TypeNamed{id, name, typ}
}

func (t *TypeNamed) ID() int        { return t.id }
func (t *TypeNamed) Kind() Kind     { return NamedKind }
func (t *TypeNamed) String() string { return t.Name }

// FormatDeclarator returns the C declaration of name with type typ, e.g.,
// "char *argv[]" or "int (*handler)(int)".  If name is empty, the result
// is an abstract declarator as used in casts and prototypes.
func FormatDeclarator(typ Type, name string) string {
	inner := name
	var ptr bool
	for {
		switch t := typ.(type) {
		case *TypePointer:
			inner = "*" + inner
			ptr = true
			typ = t.Type
		case *TypeArray:
			if ptr {
				inner = "(" + inner + ")"
				ptr = false
			}
			if t.Len < 0 {
				inner += "[]"
			} else {
				inner += "[" + strconv.Itoa(t.Len) + "]"
			}
			typ = t.Type
		case *TypeFunc:
			if ptr {
				inner = "(" + inner + ")"
				ptr = false
			}
			inner += "(" + formatParams(t) + ")"
			typ = t.Result
		default:
			base := typ.String()
			if inner == "" {
				return base
			}
			if inner[0] == '[' {
				return base + inner
			}
			return base + " " + inner
		}
	}
}

func formatParams(t *TypeFunc) string {
	if len(t.Params) == 0 {
		if t.Variadic {
			return "..."
		}
		return "void"
	}
	var b strings.Builder
	for k, p := range t.Params {
		if k > 0 {
			b.WriteString(", ")
		}
		b.WriteString(FormatDeclarator(p, ""))
	}
	if t.Variadic {
		b.WriteString(", ...")
	}
	return b.String()
}
