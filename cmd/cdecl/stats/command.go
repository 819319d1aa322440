package stats

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/alecthomas/units"
	"github.com/brimdata/cdecl/cmd/cdecl/root"
	"github.com/brimdata/cdecl/compiler/ast"
	"github.com/brimdata/cdecl/compiler/declfile"
	"github.com/brimdata/cdecl/pkg/charm"
	"github.com/brimdata/cdecl/pkg/promstats"
	"github.com/prometheus/client_golang/prometheus"
)

var spec = &charm.Spec{
	Name:  "stats",
	Usage: "stats [-metrics] [-human] file ...",
	Short: "report declaration statistics",
	Long: `
The stats command loads the unit files concurrently and reports the
number of declarations of each kind created across all units along with
the memory they occupy.  Structs, unions, and classes are counted
together.  A file named more than once is loaded once.

With -metrics, the statistics of each unit are printed in the Prometheus
text exposition format with a "unit" label naming the file.  With
-human, byte counts are printed with binary unit suffixes.
`,
	New: New,
}

func init() {
	root.Cdecl.Add(spec)
}

type Command struct {
	*root.Command
	metrics bool
	human   bool
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	f.BoolVar(&c.metrics, "metrics", false, "print Prometheus metrics for each unit")
	f.BoolVar(&c.human, "human", false, "print byte counts with unit suffixes")
	return c, nil
}

func (c *Command) Run(args []string) error {
	if len(args) == 0 {
		return errors.New("stats: no unit files specified")
	}
	ctx, logger, cleanup, err := c.Init()
	if err != nil {
		return err
	}
	defer cleanup()
	units, err := declfile.LoadFiles(ctx, logger, uniq(args))
	if err != nil {
		return err
	}
	total := ast.NewStats()
	var collectors []prometheus.Collector
	for _, u := range units {
		stats := u.Arena.Stats()
		stats.Enable(true)
		total.Add(stats)
		collectors = append(collectors, promstats.NewCollector(stats, prometheus.Labels{"unit": u.Name}))
	}
	if c.metrics {
		return promstats.WriteText(root.Stdout, collectors...)
	}
	report := total.Report()
	if c.human {
		fmt.Fprint(root.Stdout, humanize(report))
		return nil
	}
	_, err = report.WriteTo(root.Stdout)
	return err
}

func humanize(r ast.Report) string {
	var b strings.Builder
	b.WriteString("*** Decl Stats:\n")
	fmt.Fprintf(&b, "  %d decls total.\n", r.Total)
	for _, bucket := range r.Buckets {
		fmt.Fprintf(&b, "    %d %s decls, %s each (%s)\n", bucket.Count, bucket.Name, units.Base2Bytes(bucket.Size), units.Base2Bytes(bucket.Bytes))
	}
	fmt.Fprintf(&b, "Total bytes = %s\n", units.Base2Bytes(r.TotalBytes))
	return b.String()
}

// uniq removes repeated paths so each unit is counted and labeled once.
func uniq(paths []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, path := range paths {
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}
	return out
}
