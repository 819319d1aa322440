package format

import (
	"errors"
	"flag"
	"fmt"

	"github.com/brimdata/cdecl/cmd/cdecl/root"
	"github.com/brimdata/cdecl/compiler/declfile"
	"github.com/brimdata/cdecl/compiler/dfmt"
	"github.com/brimdata/cdecl/pkg/charm"
)

var spec = &charm.Spec{
	Name:  "fmt",
	Usage: "fmt file ...",
	Short: "print translation units as C source",
	Long: `
The fmt command loads each unit file and prints its declarations as C
source in the order they appear in the file.  A tag declared before it
is defined is printed as a forward declaration.  When more than one file
is given, each unit is preceded by a comment naming its file.
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
	if len(args) == 0 {
		return errors.New("fmt: no unit files specified")
	}
	ctx, logger, cleanup, err := c.Init()
	if err != nil {
		return err
	}
	defer cleanup()
	units, err := declfile.LoadFiles(ctx, logger, args)
	if err != nil {
		return err
	}
	for k, u := range units {
		if len(units) > 1 {
			if k > 0 {
				fmt.Fprintln(root.Stdout)
			}
			fmt.Fprintf(root.Stdout, "/* %s */\n", u.Name)
		}
		fmt.Fprint(root.Stdout, dfmt.Unit(u))
	}
	return nil
}
