package dump

import (
	"errors"
	"flag"

	"github.com/brimdata/cdecl"
	"github.com/brimdata/cdecl/cmd/cdecl/root"
	"github.com/brimdata/cdecl/compiler/ast"
	"github.com/brimdata/cdecl/compiler/declfile"
	"github.com/brimdata/cdecl/pkg/charm"
	"github.com/kr/pretty"
)

var spec = &charm.Spec{
	Name:   "dump",
	Usage:  "dump file",
	Short:  "dump the declarations of a unit for debugging",
	Hidden: true,
	Long: `
The dump command loads a unit file and prints a Go-syntax rendering of
its top-level declarations and their members, parameters, and locals
with the ID and kind of each.
`,
	New: New,
}

func init() {
	root.Cdecl.Add(spec)
}

type Command struct {
	*root.Command
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	return &Command{Command: parent.(*root.Command)}, nil
}

func (c *Command) Run(args []string) error {
	if len(args) != 1 {
		return errors.New("dump: exactly one unit file required")
	}
	ctx, logger, cleanup, err := c.Init()
	if err != nil {
		return err
	}
	defer cleanup()
	u, err := declfile.LoadFile(ctx, logger, args[0])
	if err != nil {
		return err
	}
	var nodes []Node
	for _, d := range u.Decls() {
		nodes = append(nodes, newNode(u, d))
	}
	_, err = pretty.Fprintf(root.Stdout, "%# v\n", nodes)
	return err
}

type Node struct {
	ID      int
	Kind    string
	Name    string
	Type    string
	Storage string
	Value   int64
	Members []Node
}

func newNode(u *declfile.Unit, d ast.Decl) Node {
	n := Node{ID: d.ID(), Kind: d.Kind().String(), Name: d.Name()}
	switch d := d.(type) {
	case *ast.TypedefDecl:
		n.Type = d.Underlying().String()
	case *ast.VarDecl:
		n.Type = d.Type().String()
		n.Storage = d.Storage.String()
	case *ast.FieldDecl:
		n.Type = d.Type().String()
	case *ast.EnumConstantDecl:
		n.Type = d.Type().String()
		n.Value = d.Value
	case *ast.FunctionDecl:
		n.Type = cdecl.FormatDeclarator(d.Type(), "")
		n.Storage = d.Storage.String()
		for _, p := range d.Params() {
			n.Members = append(n.Members, newNode(u, p))
		}
		locals, _ := u.Body(d)
		for _, v := range locals {
			n.Members = append(n.Members, newNode(u, v))
		}
	case *ast.RecordDecl:
		for _, f := range d.Fields() {
			n.Members = append(n.Members, newNode(u, f))
		}
	case *ast.EnumDecl:
		for _, c := range d.Elements() {
			n.Members = append(n.Members, newNode(u, c))
		}
	}
	return n
}
