package srcfiles

import (
	"sort"
	"strings"
)

// File holds the text of a source file and its line offsets.
type File struct {
	Name  string
	Text  string
	lines []int
}

func NewFile(name string, src []byte) *File {
	lines := []int{0}
	for offset, b := range src {
		if b == '\n' && offset+1 < len(src) {
			lines = append(lines, offset+1)
		}
	}
	return &File{
		Name:  name,
		Text:  string(src),
		lines: lines,
	}
}

// Line returns the text of the 1-based line n without its newline or ""
// if there is no such line.
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.lines) {
		return ""
	}
	start := f.lines[n-1]
	end := len(f.Text)
	if n < len(f.lines) {
		end = f.lines[n]
	}
	return strings.TrimRight(f.Text[start:end], "\r\n")
}

// Position returns the Position of byte offset pos in f.
func (f *File) Position(pos int) Position {
	if pos < 0 || pos > len(f.Text) {
		return Position{}
	}
	i := sort.Search(len(f.lines), func(i int) bool { return f.lines[i] > pos }) - 1
	return Position{
		Line:   i + 1,
		Column: pos - f.lines[i] + 1,
	}
}

type Position struct {
	Line   int `json:"line"`   // 1-based line number.
	Column int `json:"column"` // 1-based column number.
}

func (p Position) IsValid() bool { return p.Line > 0 }
