package srcfiles

import (
	"fmt"
	"strings"
)

// ErrorList is a list of Errors.
type ErrorList []*Error

// Append appends an Error at pos in file to e.
func (e *ErrorList) Append(file *File, msg string, pos Position) {
	*e = append(*e, &Error{msg, pos, file})
}

// Err returns e as an error or nil if e is empty.
func (e ErrorList) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Error concatenates the errors in e with a newline between each.
func (e ErrorList) Error() string {
	var b strings.Builder
	for i, err := range e {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

type Error struct {
	Msg  string
	Pos  Position
	file *File
}

func (e *Error) Error() string {
	if e.file == nil || !e.Pos.IsValid() {
		return e.Msg
	}
	var b strings.Builder
	b.WriteString(e.Msg)
	if e.file.Name != "" {
		fmt.Fprintf(&b, " in %s", e.file.Name)
	}
	line := e.file.Line(e.Pos.Line)
	fmt.Fprintf(&b, " at line %d, column %d:\n%s\n", e.Pos.Line, e.Pos.Column, line)
	formatPointError(&b, e.Pos)
	return b.String()
}

func formatPointError(b *strings.Builder, start Position) {
	col := start.Column - 1
	for k := range col {
		if k >= col-4 && k != col-1 {
			b.WriteByte('=')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteString("^ ===")
}
