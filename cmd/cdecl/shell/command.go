package shell

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/brimdata/cdecl/cmd/cdecl/root"
	"github.com/brimdata/cdecl/compiler/declfile"
	"github.com/brimdata/cdecl/compiler/dfmt"
	"github.com/brimdata/cdecl/pkg/charm"
	"github.com/peterh/liner"
)

var spec = &charm.Spec{
	Name:  "shell",
	Usage: "shell file",
	Short: "explore a unit interactively",
	Long: `
The shell command loads a unit file and reads commands from the terminal:

  decl NAME           print the declaration of a tag or ordinary name
  member TAG FIELD    print a field of a struct, union, or class
  tags                list the declared tags
  fmt                 print the unit as C source
  stats               print declaration statistics
  load FILE           switch to another unit file
  quit                leave the shell

The file is loaded again before a command whenever it has changed.
Recently used units are kept in memory, up to the -cache limit.
`,
	New: New,
}

func init() {
	root.Cdecl.Add(spec)
}

type Command struct {
	*root.Command
	cacheSize int
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	f.IntVar(&c.cacheSize, "cache", 4, "number of loaded units to keep")
	return c, nil
}

func (c *Command) Run(args []string) error {
	if len(args) != 1 {
		return errors.New("shell: exactly one unit file required")
	}
	ctx, logger, cleanup, err := c.Init()
	if err != nil {
		return err
	}
	defer cleanup()
	cache, err := declfile.NewCache(c.cacheSize, logger)
	if err != nil {
		return err
	}
	path := args[0]
	if _, err := cache.Load(ctx, path); err != nil {
		return err
	}
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	for {
		input, err := line.Prompt("cdecl> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		if input == "quit" || input == "exit" {
			return nil
		}
		if next, ok := strings.CutPrefix(input, "load "); ok {
			next = strings.TrimSpace(next)
			if _, err := cache.Load(ctx, next); err != nil {
				fmt.Fprintln(root.Stdout, err)
				continue
			}
			path = next
			continue
		}
		u, err := cache.Load(ctx, path)
		if err == nil {
			var out string
			out, err = eval(u, input)
			fmt.Fprint(root.Stdout, out)
		}
		if err != nil {
			fmt.Fprintln(root.Stdout, err)
		}
	}
}

// eval runs one shell command against u and returns its output.
func eval(u *declfile.Unit, input string) (string, error) {
	args := strings.Fields(input)
	if len(args) == 0 {
		return "", nil
	}
	cmd, args := args[0], args[1:]
	switch cmd {
	case "decl":
		if len(args) != 1 {
			return "", errors.New("usage: decl NAME")
		}
		if d, ok := u.LookupOrdinary(args[0]); ok {
			return dfmt.Decl(d), nil
		}
		if d, ok := u.LookupTag(args[0]); ok {
			return dfmt.Decl(d), nil
		}
		return "", fmt.Errorf("%q is not declared", args[0])
	case "member":
		if len(args) != 2 {
			return "", errors.New("usage: member TAG FIELD")
		}
		f, err := u.LookupMember(args[0], args[1])
		if err != nil {
			return "", err
		}
		return dfmt.Decl(f), nil
	case "tags":
		names := u.TagNames()
		slices.Sort(names)
		if len(names) == 0 {
			return "", nil
		}
		return strings.Join(names, "\n") + "\n", nil
	case "fmt":
		return dfmt.Unit(u), nil
	case "stats":
		return u.Arena.Stats().Report().String(), nil
	}
	return "", fmt.Errorf("unknown command %q", cmd)
}
