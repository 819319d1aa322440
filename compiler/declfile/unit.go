package declfile

import (
	"errors"
	"fmt"

	"github.com/brimdata/cdecl"
	"github.com/brimdata/cdecl/compiler/ast"
	"github.com/brimdata/cdecl/pkg/ident"
	"github.com/segmentio/ksuid"
)

// An Entry is one top-level declaration of a Unit.  A tag or function
// declared more than once appears in one Entry per declaration and
// Defines marks the Entry that gave it a body.
type Entry struct {
	Decl    ast.Decl
	Defines bool
}

// Unit is a loaded translation unit.  Its declarations are owned by Arena
// and its types are interned in Types.  ID distinguishes the session that
// loaded the unit in logs.
type Unit struct {
	ID     ksuid.KSUID
	Name   string
	Arena  *ast.Arena
	Types  *cdecl.Context
	Idents *ident.Table

	entries  []Entry
	tags     map[*ident.Ident]ast.Decl
	ordinary map[*ident.Ident]ast.Decl
	bodies   map[*ast.FunctionDecl][]*ast.VarDecl
}

// NewUnit returns an empty Unit whose arena records declarations in stats.
func NewUnit(name string, stats *ast.Stats) *Unit {
	return &Unit{
		ID:       ksuid.New(),
		Name:     name,
		Arena:    ast.NewArena(stats),
		Types:    cdecl.NewContext(),
		Idents:   ident.NewTable(),
		tags:     make(map[*ident.Ident]ast.Decl),
		ordinary: make(map[*ident.Ident]ast.Decl),
		bodies:   make(map[*ast.FunctionDecl][]*ast.VarDecl),
	}
}

func (u *Unit) add(d ast.Decl, defines bool) {
	u.entries = append(u.entries, Entry{d, defines})
}

func (u *Unit) Entries() []Entry {
	return u.entries
}

// Decls returns the distinct top-level declarations of u in the order of
// their first appearance.
func (u *Unit) Decls() []ast.Decl {
	seen := make(map[ast.Decl]bool)
	var decls []ast.Decl
	for _, e := range u.entries {
		if !seen[e.Decl] {
			seen[e.Decl] = true
			decls = append(decls, e.Decl)
		}
	}
	return decls
}

// LookupTag returns the struct, union, class, or enum declared with tag name.
func (u *Unit) LookupTag(name string) (ast.Decl, bool) {
	d, ok := u.tags[u.Idents.Lookup(name)]
	return d, ok
}

// LookupOrdinary returns the typedef, function, variable, or enum constant
// declared at file scope with name.
func (u *Unit) LookupOrdinary(name string) (ast.Decl, bool) {
	d, ok := u.ordinary[u.Idents.Lookup(name)]
	return d, ok
}

// Body returns the block-scope variables of f and whether f was defined.
func (u *Unit) Body(f *ast.FunctionDecl) ([]*ast.VarDecl, bool) {
	locals, ok := u.bodies[f]
	return locals, ok
}

// Member returns the field named field of the record with tag name tag.
// Forward-declared records have no members.
func (u *Unit) Member(tag, field string) (*ast.FieldDecl, bool) {
	d, ok := u.LookupTag(tag)
	if !ok {
		return nil, false
	}
	rec, ok := d.(*ast.RecordDecl)
	if !ok {
		return nil, false
	}
	return rec.Member(u.Idents.Lookup(field))
}

// LookupMember is like Member but explains a failed lookup in its error,
// suggesting a similar name when there is one.
func (u *Unit) LookupMember(tag, field string) (*ast.FieldDecl, error) {
	d, ok := u.LookupTag(tag)
	if !ok {
		return nil, errors.New(withHint(fmt.Sprintf("no tag named %q", tag), tag, u.TagNames()))
	}
	rec, ok := d.(*ast.RecordDecl)
	if !ok {
		return nil, fmt.Errorf("%q is an %s, not a struct, union, or class", tag, d.Kind())
	}
	if !rec.IsDefinition() {
		return nil, fmt.Errorf("incomplete definition of type \"%s %s\"", rec.Kind(), rec.Name())
	}
	if f, ok := rec.Member(u.Idents.Lookup(field)); ok {
		return f, nil
	}
	msg := fmt.Sprintf("no member named %q in %s %s", field, rec.Kind(), rec.Name())
	return nil, errors.New(withHint(msg, field, FieldNames(rec)))
}

// TagNames returns the tag names declared in u.
func (u *Unit) TagNames() []string {
	names := make([]string, 0, len(u.tags))
	for id := range u.tags {
		names = append(names, id.Name())
	}
	return names
}

// FieldNames returns the names of the named fields of rec.
func FieldNames(rec *ast.RecordDecl) []string {
	var names []string
	for _, f := range rec.Fields() {
		if f.Ident() != nil {
			names = append(names, f.Name())
		}
	}
	return names
}
