package charm

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
)

func displayHelp(w io.Writer, specs []*Spec, showHidden bool) {
	spec := specs[len(specs)-1]
	fmt.Fprintf(w, "NAME\n    %s - %s\n\n", fullName(specs), spec.Short)
	fmt.Fprintf(w, "USAGE\n    %s\n", spec.Usage)
	if flags := helpFlags(specs, showHidden); flags != "" {
		fmt.Fprintf(w, "\nOPTIONS\n%s", flags)
	}
	var children []*Spec
	for _, child := range spec.children {
		if showHidden || !child.Hidden {
			children = append(children, child)
		}
	}
	if len(children) > 0 {
		fmt.Fprint(w, "\nCOMMANDS\n")
		for _, child := range children {
			fmt.Fprintf(w, "    %-10s %s\n", child.Name, child.Short)
		}
	}
	if long := strings.TrimSpace(spec.Long); long != "" {
		fmt.Fprintf(w, "\nDESCRIPTION\n%s\n", indent(long, "    "))
	}
}

func fullName(specs []*Spec) string {
	var names []string
	for _, s := range specs {
		names = append(names, s.Name)
	}
	return strings.Join(names, " ")
}

// helpFlags constructs the commands of specs to learn the flags of the last
// one and formats them.
func helpFlags(specs []*Spec, showHidden bool) string {
	var parent Command
	var fs *flag.FlagSet
	for k, spec := range specs {
		fs = newFlagSet(spec.Name)
		cmd, err := spec.New(parent, fs)
		if err != nil {
			return ""
		}
		if k == len(specs)-1 && spec.InternalLeaf {
			if il, ok := cmd.(InternalLeaf); ok {
				il.SetLeafFlags(fs)
			}
		}
		parent = cmd
	}
	spec := specs[len(specs)-1]
	hidden := splitList(spec.HiddenFlags)
	redacted := splitList(spec.RedactedFlags)
	var b strings.Builder
	fs.VisitAll(func(f *flag.Flag) {
		if !showHidden && slices.Contains(hidden, f.Name) {
			return
		}
		fmt.Fprintf(&b, "    -%s %s\n", f.Name, f.Usage)
		if f.DefValue != "" && !slices.Contains(redacted, f.Name) {
			fmt.Fprintf(&b, "        (default %q)\n", f.DefValue)
		}
	})
	return b.String()
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for k, line := range lines {
		if line != "" {
			lines[k] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
