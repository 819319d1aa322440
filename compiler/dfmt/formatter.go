package dfmt

import (
	"fmt"
	"strings"
)

type formatter struct {
	strings.Builder
	indent int
	tab    int
}

func (f *formatter) write(s string) {
	f.WriteString(s)
}

func (f *formatter) writef(format string, args ...any) {
	fmt.Fprintf(&f.Builder, format, args...)
}

// open writes s and indents the lines that follow.
func (f *formatter) open(s string) {
	f.write(s)
	f.indent += f.tab
}

func (f *formatter) close() {
	f.indent -= f.tab
}

// ret starts a new line at the current indentation.
func (f *formatter) ret() {
	f.WriteByte('\n')
	f.WriteString(strings.Repeat(" ", f.indent))
}

// flush terminates the output with a newline.
func (f *formatter) flush() {
	if f.Len() > 0 && !strings.HasSuffix(f.String(), "\n") {
		f.WriteByte('\n')
	}
}
