package main

import (
	"fmt"
	"os"

	_ "github.com/brimdata/cdecl/cmd/cdecl/dump"
	_ "github.com/brimdata/cdecl/cmd/cdecl/format"
	_ "github.com/brimdata/cdecl/cmd/cdecl/member"
	"github.com/brimdata/cdecl/cmd/cdecl/root"
	_ "github.com/brimdata/cdecl/cmd/cdecl/shell"
	_ "github.com/brimdata/cdecl/cmd/cdecl/stats"
)

func main() {
	if err := root.Cdecl.Exec(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
