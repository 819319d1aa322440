package root

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/brimdata/cdecl/cli/logflags"
	"github.com/brimdata/cdecl/pkg/charm"
	"go.uber.org/zap"
)

// Stdout receives the output of every command.
var Stdout io.Writer = os.Stdout

var Cdecl = &charm.Spec{
	Name:  "cdecl",
	Usage: "cdecl [options] <command> [arguments]",
	Short: "inspect C declarations of translation units",
	Long: `
The "cdecl" command loads translation units described in YAML and
builds their C declarations: typedefs, functions and their parameters,
file- and block-scope variables, structs, unions, classes, enums, and
enum constants.

A unit file holds a "decls" list whose entries each start with one of
the keys typedef, struct, union, class, enum, func, or var, e.g.,

  decls:
    - struct: point
      fields: [{name: x, type: int}, {name: y, type: int}]
    - func: norm
      result: double
      params: [{name: p, type: struct point *}]

Use "cdecl fmt" to print a unit as C source, "cdecl stats" to report
how many declarations of each kind were created, and "cdecl member" to
look up a field of a struct, union, or class.

Logging is written to stderr unless -log.path is given.
`,
	New:         New,
	HiddenFlags: "log.maxsize",
}

type Command struct {
	logFlags logflags.Flags
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{}
	c.logFlags.SetFlags(f)
	return c, nil
}

// Init opens the logger and returns a context canceled on interrupt along
// with a cleanup function that the caller must call.
func (c *Command) Init() (context.Context, *zap.Logger, func(), error) {
	logger, err := c.logFlags.Open()
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	cleanup := func() {
		cancel()
		logger.Sync()
	}
	return ctx, logger, cleanup, nil
}

func (c *Command) Run(args []string) error {
	if len(args) == 0 {
		return charm.NeedHelp
	}
	return fmt.Errorf("unknown command: %s", args[0])
}
