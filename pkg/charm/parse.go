package charm

import (
	"errors"
	"flag"
	"io"
	"strings"
)

type instance struct {
	spec    *Spec
	command Command
}

// path is the chain of commands selected by a command line, root first.
type path []instance

func (p path) run(args []string) error {
	return p[len(p)-1].command.Run(args)
}

// parse constructs the command for spec, parses its flags from args, and
// descends into the child named by the first remaining argument.  When
// leaf is true, an internal leaf command also receives its leaf flags and
// descending below it fails with ErrNotLeaf.
func parse(spec *Spec, args []string, parent Command, leaf bool) (path, []string, bool, error) {
	fs := newFlagSet(spec.Name)
	var showHidden bool
	if spec.parent == nil {
		fs.BoolVar(&showHidden, "hidden", false, "show hidden commands and flags in help")
	}
	cmd, err := spec.New(parent, fs)
	if err != nil {
		return nil, nil, false, err
	}
	var leafFlags bool
	if leaf && spec.InternalLeaf {
		if il, ok := cmd.(InternalLeaf); ok {
			il.SetLeafFlags(fs)
			leafFlags = true
		}
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, showHidden, NeedHelp
		}
		return nil, nil, false, err
	}
	rest := fs.Args()
	p := path{{spec, cmd}}
	if len(rest) > 0 {
		if child := spec.lookupSub(rest[0]); child != nil {
			if leafFlags {
				return nil, nil, false, ErrNotLeaf
			}
			sub, rest, hidden, err := parse(child, rest[1:], cmd, leaf)
			return append(p, sub...), rest, showHidden || hidden, err
		}
	}
	return p, rest, showHidden, nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseHelp returns the specs named by the non-flag arguments in args.
func parseHelp(root *Spec, args []string) []*Spec {
	specs := []*Spec{root}
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		child := specs[len(specs)-1].lookupSub(arg)
		if child == nil {
			break
		}
		specs = append(specs, child)
	}
	return specs
}
