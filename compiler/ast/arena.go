package ast

import (
	"github.com/brimdata/cdecl"
	"github.com/brimdata/cdecl/pkg/ident"
)

// An Arena allocates and owns the declarations of a compilation session.
// Each constructor records the new declaration in the session's Stats.
// IDs are assigned in allocation order starting at 1.
type Arena struct {
	stats *Stats
	decls []Decl
}

// NewArena returns an Arena that records declarations in stats.  If stats
// is nil, the Arena uses a Stats of its own.
func NewArena(stats *Stats) *Arena {
	if stats == nil {
		stats = NewStats()
	}
	return &Arena{stats: stats}
}

func (a *Arena) Stats() *Stats {
	return a.stats
}

// Decls returns every declaration allocated by a in allocation order.
func (a *Arena) Decls() []Decl {
	return a.decls
}

func (a *Arena) Len() int {
	return len(a.decls)
}

// Lookup returns the declaration with the given ID or nil.
func (a *Arena) Lookup(id int) Decl {
	if id < 1 || id > len(a.decls) {
		return nil
	}
	return a.decls[id-1]
}

func (a *Arena) base(kind Kind, name *ident.Ident) decl {
	return decl{kind: kind, id: len(a.decls) + 1, name: name}
}

func (a *Arena) enter(d Decl) {
	a.decls = append(a.decls, d)
	a.stats.Record(d.Kind())
}

func (a *Arena) NewTypedef(name *ident.Ident, typ cdecl.Type) *TypedefDecl {
	d := &TypedefDecl{decl: a.base(KindTypedef, name), typ: typ}
	a.enter(d)
	return d
}

// NewFunction returns a function declaration of type typ.  Its parameters
// are installed later with SetParams.
func (a *Arena) NewFunction(name *ident.Ident, typ FuncType, storage StorageClass) *FunctionDecl {
	d := &FunctionDecl{decl: a.base(KindFunction, name), typ: typ, Storage: storage}
	if typ == nil {
		violate("NewFunction", d, "no function type")
	}
	if f, ok := typ.(*cdecl.TypeFunc); ok && f == nil {
		violate("NewFunction", d, "no function type")
	}
	a.enter(d)
	return d
}

func (a *Arena) NewBlockVar(name *ident.Ident, typ cdecl.Type, storage StorageClass) *VarDecl {
	return a.newVar(KindBlockVariable, name, typ, storage)
}

func (a *Arena) NewFileVar(name *ident.Ident, typ cdecl.Type, storage StorageClass) *VarDecl {
	return a.newVar(KindFileVariable, name, typ, storage)
}

func (a *Arena) NewParmVar(name *ident.Ident, typ cdecl.Type) *VarDecl {
	return a.newVar(KindParmVariable, name, typ, StorageNone)
}

func (a *Arena) newVar(kind Kind, name *ident.Ident, typ cdecl.Type, storage StorageClass) *VarDecl {
	d := &VarDecl{decl: a.base(kind, name), typ: typ, Storage: storage}
	a.enter(d)
	return d
}

func (a *Arena) NewField(name *ident.Ident, typ cdecl.Type) *FieldDecl {
	d := &FieldDecl{decl: a.base(KindField, name), typ: typ}
	a.enter(d)
	return d
}

// NewRecord returns a forward declaration of a struct, union, or class
// as indicated by kind.
func (a *Arena) NewRecord(kind Kind, name *ident.Ident) *RecordDecl {
	d := &RecordDecl{decl: a.base(kind, name)}
	if !kind.IsRecord() {
		violate("NewRecord", d, "not a record kind")
	}
	a.enter(d)
	return d
}

// NewEnum returns a forward declaration of an enum.
func (a *Arena) NewEnum(name *ident.Ident) *EnumDecl {
	d := &EnumDecl{decl: a.base(KindEnum, name)}
	a.enter(d)
	return d
}

func (a *Arena) NewEnumConstant(name *ident.Ident, typ cdecl.Type, value int64) *EnumConstantDecl {
	d := &EnumConstantDecl{decl: a.base(KindEnumConstant, name), typ: typ, Value: value}
	a.enter(d)
	return d
}
