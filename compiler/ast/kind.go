package ast

import (
	"strconv"

	"github.com/brimdata/cdecl"
)

// Kind identifies the variant of a Decl.  The set of kinds is closed.
type Kind int

const (
	KindTypedef Kind = iota
	KindFunction
	KindBlockVariable
	KindFileVariable
	KindParmVariable
	KindField
	KindStruct
	KindUnion
	KindClass
	KindEnum
	KindEnumConstant
)

func (k Kind) String() string {
	switch k {
	case KindTypedef:
		return "typedef"
	case KindFunction:
		return "function"
	case KindBlockVariable:
		return "block variable"
	case KindFileVariable:
		return "file variable"
	case KindParmVariable:
		return "parameter"
	case KindField:
		return "field"
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	case KindClass:
		return "class"
	case KindEnum:
		return "enum"
	case KindEnumConstant:
		return "enum constant"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// IsRecord returns true for the kinds represented by RecordDecl.
func (k Kind) IsRecord() bool {
	return k == KindStruct || k == KindUnion || k == KindClass
}

// IsVar returns true for the kinds represented by VarDecl.
func (k Kind) IsVar() bool {
	return k == KindBlockVariable || k == KindFileVariable || k == KindParmVariable
}

// Tag returns the type tag introduced by a declaration of kind k.
func (k Kind) Tag() (cdecl.Tag, bool) {
	switch k {
	case KindStruct:
		return cdecl.TagStruct, true
	case KindUnion:
		return cdecl.TagUnion, true
	case KindClass:
		return cdecl.TagClass, true
	case KindEnum:
		return cdecl.TagEnum, true
	}
	return 0, false
}

// KindOfTag returns the declaration kind introduced by tag.
func KindOfTag(tag cdecl.Tag) Kind {
	switch tag {
	case cdecl.TagUnion:
		return KindUnion
	case cdecl.TagClass:
		return KindClass
	case cdecl.TagEnum:
		return KindEnum
	}
	return KindStruct
}

type StorageClass int

const (
	StorageNone StorageClass = iota
	StorageExtern
	StorageStatic
	StorageAuto
	StorageRegister
)

func (s StorageClass) String() string {
	switch s {
	case StorageNone:
		return ""
	case StorageExtern:
		return "extern"
	case StorageStatic:
		return "static"
	case StorageAuto:
		return "auto"
	case StorageRegister:
		return "register"
	}
	return "storage(" + strconv.Itoa(int(s)) + ")"
}

func LookupStorageClass(s string) (StorageClass, bool) {
	switch s {
	case "":
		return StorageNone, true
	case "extern":
		return StorageExtern, true
	case "static":
		return StorageStatic, true
	case "auto":
		return StorageAuto, true
	case "register":
		return StorageRegister, true
	}
	return 0, false
}
