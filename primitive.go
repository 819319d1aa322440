package cdecl

import (
	"fmt"
	"strings"
)

const (
	IDVoid = iota
	IDBool
	IDChar
	IDSChar
	IDUChar
	IDShort
	IDUShort
	IDInt
	IDUInt
	IDLong
	IDULong
	IDLongLong
	IDULongLong
	IDFloat
	IDDouble
	IDLongDouble

	IDTypeComplex
)

type TypePrimitive struct {
	id   int
	name string
}

func (t *TypePrimitive) ID() int        { return t.id }
func (t *TypePrimitive) Kind() Kind     { return PrimitiveKind }
func (t *TypePrimitive) String() string { return t.name }

var (
	TypeVoid       = &TypePrimitive{IDVoid, "void"}
	TypeBool       = &TypePrimitive{IDBool, "_Bool"}
	TypeChar       = &TypePrimitive{IDChar, "char"}
	TypeSChar      = &TypePrimitive{IDSChar, "signed char"}
	TypeUChar      = &TypePrimitive{IDUChar, "unsigned char"}
	TypeShort      = &TypePrimitive{IDShort, "short"}
	TypeUShort     = &TypePrimitive{IDUShort, "unsigned short"}
	TypeInt        = &TypePrimitive{IDInt, "int"}
	TypeUInt       = &TypePrimitive{IDUInt, "unsigned int"}
	TypeLong       = &TypePrimitive{IDLong, "long"}
	TypeULong      = &TypePrimitive{IDULong, "unsigned long"}
	TypeLongLong   = &TypePrimitive{IDLongLong, "long long"}
	TypeULongLong  = &TypePrimitive{IDULongLong, "unsigned long long"}
	TypeFloat      = &TypePrimitive{IDFloat, "float"}
	TypeDouble     = &TypePrimitive{IDDouble, "double"}
	TypeLongDouble = &TypePrimitive{IDLongDouble, "long double"}
)

var primitives = [IDTypeComplex]*TypePrimitive{
	TypeVoid,
	TypeBool,
	TypeChar,
	TypeSChar,
	TypeUChar,
	TypeShort,
	TypeUShort,
	TypeInt,
	TypeUInt,
	TypeLong,
	TypeULong,
	TypeLongLong,
	TypeULongLong,
	TypeFloat,
	TypeDouble,
	TypeLongDouble,
}

// Alternate spellings accepted by LookupPrimitive.
var primitiveAliases = map[string]*TypePrimitive{
	"bool":                   TypeBool,
	"signed":                 TypeInt,
	"signed int":             TypeInt,
	"unsigned":               TypeUInt,
	"short int":              TypeShort,
	"signed short":           TypeShort,
	"unsigned short int":     TypeUShort,
	"long int":               TypeLong,
	"signed long":            TypeLong,
	"unsigned long int":      TypeULong,
	"long long int":          TypeLongLong,
	"signed long long":       TypeLongLong,
	"unsigned long long int": TypeULongLong,
}

// LookupPrimitive returns the primitive type spelled by name or nil if
// name is not a primitive type.  Runs of white space in name are
// treated as a single space.
func LookupPrimitive(name string) Type {
	name = strings.Join(strings.Fields(name), " ")
	for _, t := range primitives {
		if t.name == name {
			return t
		}
	}
	if t, ok := primitiveAliases[name]; ok {
		return t
	}
	return nil
}

// PrimitiveNames returns the canonical spellings of the primitive types in
// ID order.
func PrimitiveNames() []string {
	names := make([]string, 0, len(primitives))
	for _, t := range primitives {
		names = append(names, t.name)
	}
	return names
}

func LookupPrimitiveByID(id int) (Type, error) {
	if id < 0 || id >= IDTypeComplex {
		return nil, fmt.Errorf("primitive type ID %d out of range", id)
	}
	return primitives[id], nil
}

func IsPrimitiveType(typ Type) bool {
	return typ.ID() < IDTypeComplex
}

// IsInteger returns true if id is the ID of one of the integer types,
// including _Bool and the character types.
func IsInteger(id int) bool {
	return id >= IDBool && id <= IDULongLong
}
