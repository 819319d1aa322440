// Package ast declares the types used to represent the declarations of a C
// translation unit.
//
// Every Decl is allocated by an Arena, which owns the node.  Enums, records,
// and functions own slices that order their constants, fields, and
// parameters, but the elements of those slices are references into the
// same Arena and never owners.
package ast

import (
	"slices"

	"github.com/brimdata/cdecl"
	"github.com/brimdata/cdecl/pkg/ident"
)

type Decl interface {
	Kind() Kind
	// Ident returns the interned name of the declaration or nil if the
	// declaration is anonymous.
	Ident() *ident.Ident
	// Name returns the display name of the declaration, which is empty
	// for an anonymous declaration.
	Name() string
	// ID returns an identifier for the declaration that is unique within
	// its Arena.
	ID() int
	declNode()
}

//go:generate go tool mockgen -destination=mock/mock_functype.go -package=mock . FuncType

// FuncType is the type of a function declaration.  *cdecl.TypeFunc
// implements FuncType.
type FuncType interface {
	cdecl.Type
	NumParams() int
}

type decl struct {
	kind Kind
	id   int
	name *ident.Ident
}

func (d *decl) Kind() Kind          { return d.kind }
func (d *decl) Ident() *ident.Ident { return d.name }
func (d *decl) Name() string        { return d.name.Name() }
func (d *decl) ID() int             { return d.id }

type TypedefDecl struct {
	decl
	typ cdecl.Type
}

// Underlying returns the type aliased by the typedef.
func (t *TypedefDecl) Underlying() cdecl.Type {
	return t.typ
}

// VarDecl declares a variable at block scope, at file scope, or as a
// function parameter as indicated by its Kind.
type VarDecl struct {
	decl
	typ     cdecl.Type
	Storage StorageClass
}

func (v *VarDecl) Type() cdecl.Type {
	return v.typ
}

type FieldDecl struct {
	decl
	typ cdecl.Type
}

func (f *FieldDecl) Type() cdecl.Type {
	return f.typ
}

type EnumConstantDecl struct {
	decl
	typ   cdecl.Type
	Value int64
}

func (e *EnumConstantDecl) Type() cdecl.Type {
	return e.typ
}

type FunctionDecl struct {
	decl
	typ       FuncType
	params    []*VarDecl
	hasParams bool
	Storage   StorageClass
	Inline    bool
}

func (f *FunctionDecl) Type() cdecl.Type {
	return f.typ
}

func (f *FunctionDecl) FuncType() FuncType {
	return f.typ
}

// NumParams returns the number of parameters declared by the function's
// type.  It does not depend on whether SetParams has been called.
func (f *FunctionDecl) NumParams() int {
	return f.typ.NumParams()
}

// SetParams installs the parameter declarations of f.  It may be called
// once and len(params) must equal f.NumParams().  The slice is copied but
// the declarations it references are not.
func (f *FunctionDecl) SetParams(params []*VarDecl) {
	if f.hasParams {
		violate("SetParams", f, "parameters already set")
	}
	if n := f.NumParams(); len(params) != n {
		violate("SetParams", f, "parameter count mismatch (got %d, want %d)", len(params), n)
	}
	f.hasParams = true
	// Zero parameters leave f.params nil.
	if len(params) > 0 {
		f.params = slices.Clone(params)
	}
}

// HasParams returns true if SetParams has been called.
func (f *FunctionDecl) HasParams() bool {
	return f.hasParams
}

// Params returns the parameter declarations or nil if there are none or
// SetParams has not been called.
func (f *FunctionDecl) Params() []*VarDecl {
	return f.params
}

func (f *FunctionDecl) Param(k int) *VarDecl {
	return f.params[k]
}

// EnumDecl is created as a forward declaration and becomes a definition
// when DefineElements is called.
type EnumDecl struct {
	decl
	elems   []*EnumConstantDecl
	defined bool
}

func (e *EnumDecl) IsDefinition() bool {
	return e.defined
}

// DefineElements marks e as defined with the given constants.  It may be
// called only once.
func (e *EnumDecl) DefineElements(elems []*EnumConstantDecl) {
	if e.defined {
		violate("DefineElements", e, "cannot redefine enum")
	}
	e.defined = true
	if len(elems) > 0 {
		e.elems = slices.Clone(elems)
	}
}

func (e *EnumDecl) Elements() []*EnumConstantDecl {
	return e.elems
}

func (e *EnumDecl) NumElements() int {
	return len(e.elems)
}

// RecordDecl represents a struct, union, or class.  It is created as a
// forward declaration and becomes a definition when DefineBody is called.
type RecordDecl struct {
	decl
	fields  []*FieldDecl
	defined bool
}

func (r *RecordDecl) IsDefinition() bool {
	return r.defined
}

// DefineBody marks r as defined with the given fields.  It may be called
// only once.
func (r *RecordDecl) DefineBody(fields []*FieldDecl) {
	if r.defined {
		violate("DefineBody", r, "cannot redefine record")
	}
	r.defined = true
	if len(fields) > 0 {
		r.fields = slices.Clone(fields)
	}
}

func (r *RecordDecl) Fields() []*FieldDecl {
	return r.fields
}

func (r *RecordDecl) NumMembers() int {
	return len(r.fields)
}

// Member returns the first field named name in declaration order.  It
// returns false if r is not defined or has no such field.
func (r *RecordDecl) Member(name *ident.Ident) (*FieldDecl, bool) {
	if name == nil {
		return nil, false
	}
	for _, f := range r.fields {
		if f.name == name {
			return f, true
		}
	}
	return nil, false
}

func (*TypedefDecl) declNode()      {}
func (*VarDecl) declNode()          {}
func (*FieldDecl) declNode()        {}
func (*EnumConstantDecl) declNode() {}
func (*FunctionDecl) declNode()     {}
func (*EnumDecl) declNode()         {}
func (*RecordDecl) declNode()       {}
