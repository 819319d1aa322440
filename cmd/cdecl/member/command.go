package member

import (
	"flag"
	"fmt"

	"github.com/brimdata/cdecl/cmd/cdecl/root"
	"github.com/brimdata/cdecl/compiler/declfile"
	"github.com/brimdata/cdecl/compiler/dfmt"
	"github.com/brimdata/cdecl/pkg/charm"
)

var spec = &charm.Spec{
	Name:  "member",
	Usage: "member file tag field",
	Short: "look up a field of a struct, union, or class",
	Long: `
The member command loads a unit file and prints the declaration of the
named field of the struct, union, or class with the given tag.  If the
tag or field does not exist, or the record is only forward declared,
member fails and suggests a similarly spelled name when there is one.
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
	if len(args) != 3 {
		return charm.NeedHelp
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
	f, err := u.LookupMember(args[1], args[2])
	if err != nil {
		return err
	}
	fmt.Fprint(root.Stdout, dfmt.Decl(f))
	return nil
}
