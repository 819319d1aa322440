package shell

import (
	"context"
	"testing"

	"github.com/brimdata/cdecl/compiler/declfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unit = `
decls:
  - struct: point
    fields: [{name: x, type: int}, {name: y, type: int}]
  - union: value
  - func: origin
    result: struct point *
  - var: count
    type: unsigned
    storage: static
`

func TestEval(t *testing.T) {
	u, err := declfile.Load(context.Background(), nil, "shell.yaml", []byte(unit))
	require.NoError(t, err)
	cases := []struct {
		input, output, err string
	}{
		{input: "decl point", output: "struct point {\n  int x;\n  int y;\n};\n"},
		{input: "decl origin", output: "struct point *origin(void);\n"},
		{input: "decl count", output: "static unsigned int count;\n"},
		{input: "decl value", output: "union value;\n"},
		{input: "decl nope", err: `"nope" is not declared`},
		{input: "decl", err: "usage: decl NAME"},
		{input: "member point y", output: "int y;\n"},
		{input: "member point z", err: `no member named "z" in struct point`},
		{input: "member value x", err: `incomplete definition of type "union value"`},
		{input: "member point", err: "usage: member TAG FIELD"},
		{input: "tags", output: "point\nvalue\n"},
		{input: "  ", output: ""},
		{input: "launch", err: `unknown command "launch"`},
	}
	for _, c := range cases {
		out, err := eval(u, c.input)
		if c.err != "" {
			assert.EqualError(t, err, c.err, c.input)
			continue
		}
		require.NoError(t, err, c.input)
		assert.Equal(t, c.output, out, c.input)
	}
	out, err := eval(u, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "  6 decls total.\n")
	out, err = eval(u, "fmt")
	require.NoError(t, err)
	assert.Contains(t, out, "union value;\n")
}
