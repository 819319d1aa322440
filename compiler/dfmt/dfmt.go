// Package dfmt formats declarations as C source.
package dfmt

import (
	"strings"

	"github.com/brimdata/cdecl"
	"github.com/brimdata/cdecl/compiler/ast"
	"github.com/brimdata/cdecl/compiler/declfile"
)

// Unit formats the top-level declarations of u in order.  A tag declared
// before its definition is printed as a forward declaration at each entry
// that does not define it.
func Unit(u *declfile.Unit) string {
	c := &canon{formatter: formatter{tab: 2}, unit: u}
	for k, e := range u.Entries() {
		if k > 0 {
			c.ret()
		}
		c.decl(e.Decl, e.Defines)
	}
	c.flush()
	return c.String()
}

// Decl formats d.  Records and enums are printed with their bodies when
// they are defined.
func Decl(d ast.Decl) string {
	c := &canon{formatter: formatter{tab: 2}}
	c.decl(d, true)
	c.flush()
	return c.String()
}

type canon struct {
	formatter
	unit *declfile.Unit
}

func (c *canon) decl(d ast.Decl, define bool) {
	switch d := d.(type) {
	case *ast.TypedefDecl:
		c.writef("typedef %s;", cdecl.FormatDeclarator(d.Underlying(), d.Name()))
	case *ast.VarDecl:
		if d.Kind() == ast.KindParmVariable {
			c.write(cdecl.FormatDeclarator(d.Type(), d.Name()))
			return
		}
		c.storage(d.Storage)
		c.writef("%s;", cdecl.FormatDeclarator(d.Type(), d.Name()))
	case *ast.FieldDecl:
		c.writef("%s;", cdecl.FormatDeclarator(d.Type(), d.Name()))
	case *ast.EnumConstantDecl:
		c.writef("%s = %d", d.Name(), d.Value)
	case *ast.RecordDecl:
		c.record(d, define)
	case *ast.EnumDecl:
		c.enum(d, define)
	case *ast.FunctionDecl:
		c.function(d, define)
	default:
		c.writef("/* unknown decl %T */", d)
	}
}

func (c *canon) storage(s ast.StorageClass) {
	if s != ast.StorageNone {
		c.writef("%s ", s)
	}
}

func (c *canon) tagHead(d ast.Decl) {
	c.write(d.Kind().String())
	if name := d.Name(); name != "" {
		c.write(" " + name)
	}
}

func (c *canon) record(d *ast.RecordDecl, define bool) {
	c.tagHead(d)
	if !define || !d.IsDefinition() {
		c.write(";")
		return
	}
	if d.NumMembers() == 0 {
		c.write(" {};")
		return
	}
	c.open(" {")
	for _, f := range d.Fields() {
		c.ret()
		c.decl(f, true)
	}
	c.close()
	c.ret()
	c.write("};")
}

func (c *canon) enum(d *ast.EnumDecl, define bool) {
	c.tagHead(d)
	if !define || !d.IsDefinition() {
		c.write(";")
		return
	}
	if d.NumElements() == 0 {
		c.write(" {};")
		return
	}
	c.open(" {")
	for k, e := range d.Elements() {
		if k > 0 {
			c.write(",")
		}
		c.ret()
		c.decl(e, true)
	}
	c.close()
	c.ret()
	c.write("};")
}

func (c *canon) function(d *ast.FunctionDecl, define bool) {
	c.storage(d.Storage)
	if d.Inline {
		c.write("inline ")
	}
	typ, ok := d.Type().(*cdecl.TypeFunc)
	if !ok {
		c.writef("%s %s;", d.Type(), d.Name())
		return
	}
	c.write(cdecl.FormatDeclarator(typ.Result, d.Name()+"("+params(d, typ)+")"))
	var locals []*ast.VarDecl
	if c.unit != nil {
		locals, ok = c.unit.Body(d)
		define = define && ok
	} else {
		define = false
	}
	if !define {
		c.write(";")
		return
	}
	if len(locals) == 0 {
		c.write(" {}")
		return
	}
	c.open(" {")
	for _, v := range locals {
		c.ret()
		c.decl(v, true)
	}
	c.close()
	c.ret()
	c.write("}")
}

// params formats the parameter list of d using the names of its parameter
// declarations when they have been set.
func params(d *ast.FunctionDecl, typ *cdecl.TypeFunc) string {
	if len(typ.Params) == 0 {
		if typ.Variadic {
			return "..."
		}
		return "void"
	}
	var b strings.Builder
	for k, p := range typ.Params {
		if k > 0 {
			b.WriteString(", ")
		}
		var name string
		if d.HasParams() {
			name = d.Param(k).Name()
		}
		b.WriteString(cdecl.FormatDeclarator(p, name))
	}
	if typ.Variadic {
		b.WriteString(", ...")
	}
	return b.String()
}

