// Package charm is a minimalist CLI framework inspired by cobra and urfave/cli.
//
// A program is a tree of Specs.  Each Spec constructs its Command with the
// flag set of that level, so flags of a parent precede the name of a child
// on the command line:
//
//	cdecl -log.level debug stats -metrics unit.yaml
package charm

import (
	"errors"
	"flag"
	"io"
	"os"
)

var (
	NeedHelp   = errors.New("help")
	ErrNoRun   = errors.New("no run method")
	ErrNotLeaf = errors.New("no internal leaf found")
)

// Stdout receives help text.
var Stdout io.Writer = os.Stdout

type Constructor func(Command, *flag.FlagSet) (Command, error)

type Command interface {
	Run([]string) error
}

// An interior command that implements SetLeafFlags has flags that apply
// only when it is the command being run and are not inherited by its
// children.
type InternalLeaf interface {
	SetLeafFlags(*flag.FlagSet)
}

type Spec struct {
	Name  string
	Usage string
	Short string
	Long  string
	New   Constructor
	// Hidden hides this command from help.
	Hidden bool
	// HiddenFlags is a comma-separated list of flags omitted from help.
	HiddenFlags string
	// RedactedFlags is a comma-separated list of flags shown in help
	// without their default values.
	RedactedFlags string
	// InternalLeaf is true for commands that have children and may also
	// be run themselves with leaf flags.
	InternalLeaf bool
	children     []*Spec
	parent       *Spec
}

func (s *Spec) Add(child *Spec) {
	s.children = append(s.children, child)
	child.parent = s
}

func (s *Spec) lookupSub(name string) *Spec {
	for _, child := range s.children {
		if name == child.Name {
			return child
		}
	}
	return nil
}

// Exec parses args against the command tree rooted at s and runs the
// selected command.  A command returning NeedHelp, or a -h or -help flag,
// displays help for the selected command instead.
func (s *Spec) Exec(args []string) error {
	path, rest, showHidden, err := parse(s, args, nil, true)
	if err == ErrNotLeaf {
		path, rest, showHidden, err = parse(s, args, nil, false)
	}
	if err == nil {
		err = path.run(rest)
	}
	if err == NeedHelp {
		displayHelp(Stdout, parseHelp(s, args), showHidden)
		return nil
	}
	return err
}

func NoRun(args []string) error {
	if len(args) == 0 {
		return NeedHelp
	}
	return ErrNoRun
}
