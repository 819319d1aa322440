// Package declfile loads translation units described in YAML and builds
// their declarations.
//
// A unit is a list of top-level declarations:
//
//	decls:
//	  - typedef: size_t
//	    type: unsigned long
//	  - struct: point
//	    fields: [{name: x, type: int}, {name: y, type: int}]
//	  - func: norm
//	    result: int
//	    params: [{name: p, type: struct point *}]
//
// The loader keeps a tag scope and an ordinary scope for the unit and
// reports misuse of them as positioned errors.
package declfile

import (
	"context"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/brimdata/cdecl"
	"github.com/brimdata/cdecl/compiler/ast"
	"github.com/brimdata/cdecl/compiler/srcfiles"
	"github.com/brimdata/cdecl/pkg/ident"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Load builds a Unit from the YAML description in src.  Errors in the
// description are returned as a srcfiles.ErrorList.
func Load(ctx context.Context, logger *zap.Logger, name string, src []byte) (*Unit, error) {
	return load(ctx, logger, name, src, ast.NewStats())
}

// LoadFile reads and loads the unit in the file at path.
func LoadFile(ctx context.Context, logger *zap.Logger, path string) (*Unit, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(ctx, logger, path, src)
}

// LoadFiles loads the units in paths concurrently.  Each unit has its own
// arena and Stats.  The first error cancels the remaining loads.
func LoadFiles(ctx context.Context, logger *zap.Logger, paths []string) ([]*Unit, error) {
	units := make([]*Unit, len(paths))
	group, ctx := errgroup.WithContext(ctx)
	for k, path := range paths {
		group.Go(func() error {
			u, err := LoadFile(ctx, logger, path)
			units[k] = u
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}

func load(ctx context.Context, logger *zap.Logger, name string, src []byte, stats *ast.Stats) (*Unit, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var doc document
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	u := NewUnit(name, stats)
	l := &loader{
		unit:   u,
		file:   srcfiles.NewFile(name, src),
		logger: logger.With(zap.String("unit", name), zap.Stringer("session", u.ID)),
	}
	l.checkKeys(&doc.keys, "decls")
	for _, e := range doc.Decls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e == nil {
			l.error(doc.keys.at("decls"), "empty declaration")
			continue
		}
		l.entry(e)
	}
	if err := l.errs.Err(); err != nil {
		return nil, err
	}
	l.logger.Debug("unit loaded", zap.Int("decls", l.unit.Arena.Len()))
	return l.unit, nil
}

type loader struct {
	unit   *Unit
	file   *srcfiles.File
	logger *zap.Logger
	errs   srcfiles.ErrorList
}

func (l *loader) error(pos srcfiles.Position, msg string) {
	l.errs.Append(l.file, msg, pos)
}

func (l *loader) errorf(pos srcfiles.Position, format string, args ...any) {
	l.error(pos, fmt.Sprintf(format, args...))
}

func (l *loader) checkKeys(k *keys, allowed ...string) {
	for _, key := range k.order {
		if !slices.Contains(allowed, key) {
			l.errorf(k.at(key), "unknown key %q", key)
		}
	}
}

// ident interns name.  An empty name yields a nil Ident.
func (l *loader) ident(name string, pos srcfiles.Position) (*ident.Ident, bool) {
	if name == "" {
		return nil, true
	}
	id, err := l.unit.Idents.Intern(name)
	if err != nil {
		l.error(pos, err.Error())
		return nil, false
	}
	return id, true
}

func (l *loader) storage(s string, pos srcfiles.Position) (ast.StorageClass, bool) {
	storage, ok := ast.LookupStorageClass(s)
	if !ok {
		l.errorf(pos, "unknown storage class %q", s)
	}
	return storage, ok
}

func (l *loader) entry(e *entry) {
	if e.nkeyword != 1 {
		l.error(e.keys.pos, "declaration must have exactly one of typedef, struct, union, class, enum, func, or var")
		return
	}
	switch e.keyword {
	case "typedef":
		l.checkKeys(&e.keys, "typedef", "type")
		l.typedef(e)
	case "struct", "union", "class":
		l.checkKeys(&e.keys, e.keyword, "fields")
		l.record(e)
	case "enum":
		l.checkKeys(&e.keys, "enum", "constants")
		l.enum(e)
	case "func":
		l.checkKeys(&e.keys, "func", "result", "params", "variadic", "locals", "storage", "inline")
		l.function(e)
	case "var":
		l.checkKeys(&e.keys, "var", "type", "storage")
		l.fileVar(e)
	}
}

// redeclared reports an ordinary name declared again in a way C forbids.
func (l *loader) redeclared(pos srcfiles.Position, prev ast.Decl, kind ast.Kind) {
	if prev.Kind() != kind {
		l.errorf(pos, "redefinition of %q as different kind of symbol", prev.Name())
		return
	}
	l.errorf(pos, "redefinition of %q", prev.Name())
}

func (l *loader) typedef(e *entry) {
	pos := e.keys.at("typedef")
	if e.name == "" {
		l.error(pos, "typedef requires a name")
		return
	}
	typ, ok := l.parseType(e.Type, e.keys.at("type"))
	if !ok {
		return
	}
	id, ok := l.ident(e.name, pos)
	if !ok {
		return
	}
	if prev, ok := l.unit.ordinary[id]; ok {
		if td, ok := prev.(*ast.TypedefDecl); ok && td.Underlying() == typ {
			l.unit.add(td, false)
			return
		}
		if prev.Kind() == ast.KindTypedef {
			l.errorf(pos, "typedef redefinition with different types (%s vs %s)", typ, prev.(*ast.TypedefDecl).Underlying())
			return
		}
		l.redeclared(pos, prev, ast.KindTypedef)
		return
	}
	if _, err := l.unit.Types.LookupTypeNamed(id.Name(), typ); err != nil {
		l.error(pos, err.Error())
		return
	}
	d := l.unit.Arena.NewTypedef(id, typ)
	l.unit.ordinary[id] = d
	l.unit.add(d, true)
}

// tagDecl returns the declaration for the tag name of the given kind,
// creating a forward declaration on first mention.  An empty name always
// creates a new anonymous declaration.
func (l *loader) tagDecl(kind ast.Kind, name string, pos srcfiles.Position) (ast.Decl, bool) {
	if name == "" {
		return l.newTag(kind, nil), true
	}
	id, ok := l.ident(name, pos)
	if !ok {
		return nil, false
	}
	if d, ok := l.unit.tags[id]; ok {
		if d.Kind() != kind {
			l.errorf(pos, "use of \"%s %s\" with tag type that does not match previous declaration", kind, name)
			return nil, false
		}
		return d, true
	}
	tag, _ := kind.Tag()
	if _, err := l.unit.Types.LookupTypeTag(tag, id.Name()); err != nil {
		l.error(pos, err.Error())
		return nil, false
	}
	d := l.newTag(kind, id)
	l.unit.tags[id] = d
	l.logger.Debug("forward declaration", zap.Stringer("kind", kind), zap.String("name", id.Name()))
	return d, true
}

func (l *loader) newTag(kind ast.Kind, id *ident.Ident) ast.Decl {
	if kind == ast.KindEnum {
		return l.unit.Arena.NewEnum(id)
	}
	return l.unit.Arena.NewRecord(kind, id)
}

func (l *loader) record(e *entry) {
	tag, _ := cdecl.LookupTag(e.keyword)
	pos := e.keys.at(e.keyword)
	d, ok := l.tagDecl(ast.KindOfTag(tag), e.name, pos)
	if !ok {
		return
	}
	rec := d.(*ast.RecordDecl)
	if !e.keys.has("fields") {
		l.unit.add(rec, false)
		return
	}
	if rec.IsDefinition() {
		l.errorf(pos, "redefinition of %s %s", e.keyword, e.name)
		return
	}
	var fields []*ast.FieldDecl
	seen := make(map[*ident.Ident]bool)
	for _, m := range e.Fields {
		if m == nil {
			l.error(e.keys.at("fields"), "empty field")
			continue
		}
		l.checkKeys(&m.keys, "name", "type")
		typ, ok := l.parseType(m.Type, m.keys.at("type"))
		if !ok {
			continue
		}
		id, ok := l.ident(m.Name, m.keys.at("name"))
		if !ok {
			continue
		}
		if id != nil {
			if seen[id] {
				l.errorf(m.keys.at("name"), "duplicate member %q", m.Name)
				continue
			}
			seen[id] = true
		}
		fields = append(fields, l.unit.Arena.NewField(id, typ))
	}
	rec.DefineBody(fields)
	l.logger.Debug("definition", zap.Stringer("kind", rec.Kind()), zap.String("name", rec.Name()), zap.Int("members", rec.NumMembers()))
	l.unit.add(rec, true)
}

func (l *loader) enum(e *entry) {
	pos := e.keys.at("enum")
	d, ok := l.tagDecl(ast.KindEnum, e.name, pos)
	if !ok {
		return
	}
	enum := d.(*ast.EnumDecl)
	if !e.keys.has("constants") {
		l.unit.add(enum, false)
		return
	}
	if enum.IsDefinition() {
		l.errorf(pos, "redefinition of enum %s", e.name)
		return
	}
	var elems []*ast.EnumConstantDecl
	var next int64
	var overflow bool
	for _, m := range e.Constants {
		if m == nil {
			l.error(e.keys.at("constants"), "empty enum constant")
			continue
		}
		l.checkKeys(&m.keys, "name", "value")
		npos := m.keys.at("name")
		if m.Name == "" {
			l.error(npos, "enum constant requires a name")
			continue
		}
		id, ok := l.ident(m.Name, npos)
		if !ok {
			continue
		}
		if prev, ok := l.unit.ordinary[id]; ok {
			l.redeclared(npos, prev, ast.KindEnumConstant)
			continue
		}
		if m.Value != nil {
			next, overflow = *m.Value, false
		} else if overflow {
			l.error(npos, "overflow in enumeration values")
			continue
		}
		c := l.unit.Arena.NewEnumConstant(id, cdecl.TypeInt, next)
		l.unit.ordinary[id] = c
		elems = append(elems, c)
		if next == math.MaxInt64 {
			overflow = true
		} else {
			next++
		}
	}
	enum.DefineElements(elems)
	l.logger.Debug("definition", zap.Stringer("kind", ast.KindEnum), zap.String("name", enum.Name()), zap.Int("constants", enum.NumElements()))
	l.unit.add(enum, true)
}

func (l *loader) function(e *entry) {
	pos := e.keys.at("func")
	if e.name == "" {
		l.error(pos, "function requires a name")
		return
	}
	storage, ok := l.storage(e.Storage, e.keys.at("storage"))
	if !ok {
		return
	}
	if storage != ast.StorageNone && storage != ast.StorageExtern && storage != ast.StorageStatic {
		l.errorf(e.keys.at("storage"), "illegal storage class %s on function", storage)
		return
	}
	result, ok := l.parseType(e.Result, e.keys.at("result"))
	if !ok {
		return
	}
	var types []cdecl.Type
	var names []*ident.Ident
	seen := make(map[*ident.Ident]bool)
	for _, p := range e.Params {
		if p == nil {
			l.error(e.keys.at("params"), "empty parameter")
			return
		}
		l.checkKeys(&p.keys, "name", "type")
		typ, ok := l.parseType(p.Type, p.keys.at("type"))
		if !ok {
			return
		}
		id, ok := l.ident(p.Name, p.keys.at("name"))
		if !ok {
			return
		}
		if id != nil {
			if seen[id] {
				l.errorf(p.keys.at("name"), "redefinition of parameter %q", p.Name)
				return
			}
			seen[id] = true
		}
		types = append(types, typ)
		names = append(names, id)
	}
	typ, err := l.unit.Types.LookupTypeFunc(types, result, e.Variadic)
	if err != nil {
		l.error(pos, err.Error())
		return
	}
	id, ok := l.ident(e.name, pos)
	if !ok {
		return
	}
	define := e.keys.has("locals")
	if prev, ok := l.unit.ordinary[id]; ok {
		f, ok := prev.(*ast.FunctionDecl)
		if !ok {
			l.redeclared(pos, prev, ast.KindFunction)
			return
		}
		if f.Type() != typ {
			l.errorf(pos, "conflicting types for %q", e.name)
			return
		}
		if _, defined := l.unit.Body(f); define && defined {
			l.redeclared(pos, f, ast.KindFunction)
			return
		}
		if define {
			l.defineFunction(f, e)
		}
		l.unit.add(f, define)
		return
	}
	f := l.unit.Arena.NewFunction(id, typ, storage)
	f.Inline = e.Inline
	params := make([]*ast.VarDecl, 0, len(types))
	for k, typ := range types {
		params = append(params, l.unit.Arena.NewParmVar(names[k], typ))
	}
	f.SetParams(params)
	l.unit.ordinary[id] = f
	l.logger.Debug("function", zap.String("name", f.Name()), zap.Stringer("type", typ))
	if define {
		l.defineFunction(f, e)
	}
	l.unit.add(f, define)
}

// defineFunction creates the block-scope variables of f's body.
func (l *loader) defineFunction(f *ast.FunctionDecl, e *entry) {
	seen := make(map[*ident.Ident]bool)
	for _, p := range f.Params() {
		if p.Ident() != nil {
			seen[p.Ident()] = true
		}
	}
	locals := []*ast.VarDecl{}
	for _, m := range e.Locals {
		if m == nil {
			l.error(e.keys.at("locals"), "empty local variable")
			continue
		}
		l.checkKeys(&m.keys, "name", "type", "storage")
		npos := m.keys.at("name")
		if m.Name == "" {
			l.error(npos, "local variable requires a name")
			continue
		}
		typ, ok := l.parseType(m.Type, m.keys.at("type"))
		if !ok {
			continue
		}
		storage, ok := l.storage(m.Storage, m.keys.at("storage"))
		if !ok {
			continue
		}
		id, ok := l.ident(m.Name, npos)
		if !ok {
			continue
		}
		if seen[id] {
			l.errorf(npos, "redefinition of %q", m.Name)
			continue
		}
		seen[id] = true
		locals = append(locals, l.unit.Arena.NewBlockVar(id, typ, storage))
	}
	l.unit.bodies[f] = locals
	l.logger.Debug("definition", zap.Stringer("kind", ast.KindFunction), zap.String("name", f.Name()), zap.Int("locals", len(locals)))
}

func (l *loader) fileVar(e *entry) {
	pos := e.keys.at("var")
	if e.name == "" {
		l.error(pos, "variable requires a name")
		return
	}
	storage, ok := l.storage(e.Storage, e.keys.at("storage"))
	if !ok {
		return
	}
	if storage == ast.StorageAuto || storage == ast.StorageRegister {
		l.errorf(e.keys.at("storage"), "illegal storage class %s on file-scoped variable", storage)
		return
	}
	typ, ok := l.parseType(e.Type, e.keys.at("type"))
	if !ok {
		return
	}
	id, ok := l.ident(e.name, pos)
	if !ok {
		return
	}
	if prev, ok := l.unit.ordinary[id]; ok {
		v, ok := prev.(*ast.VarDecl)
		switch {
		case !ok:
			l.redeclared(pos, prev, ast.KindFileVariable)
		case v.Type() != typ:
			l.errorf(pos, "redefinition of %q with a different type: %s vs %s", e.name, typ, v.Type())
		case storage == ast.StorageStatic && v.Storage != ast.StorageStatic:
			l.errorf(pos, "static declaration of %q follows non-static declaration", e.name)
		default:
			l.unit.add(v, false)
		}
		return
	}
	v := l.unit.Arena.NewFileVar(id, typ, storage)
	l.unit.ordinary[id] = v
	l.unit.add(v, true)
}
