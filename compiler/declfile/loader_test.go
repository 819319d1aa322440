package declfile_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/brimdata/cdecl"
	"github.com/brimdata/cdecl/compiler/ast"
	"github.com/brimdata/cdecl/compiler/declfile"
	"github.com/brimdata/cdecl/compiler/srcfiles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const shapes = `
decls:
  - typedef: size_t
    type: unsigned long
  - struct: point
  - struct: point
    fields:
      - {name: x, type: int}
      - {name: y, type: int}
  - union: value
    fields:
      - {name: i, type: long}
      - {name: d, type: double}
      - {type: "char [4]"}
  - enum: color
    constants:
      - name: RED
      - name: GREEN
      - {name: BLUE, value: 4}
      - name: PURPLE
  - func: area
    result: int
    params:
      - {name: p, type: struct point *}
      - {name: n, type: size_t}
    locals:
      - {name: tmp, type: int, storage: register}
  - func: area
    result: int
    params:
      - {type: struct point *}
      - {type: size_t}
  - var: origin
    type: struct point
    storage: static
  - var: names
    type: char *[]
`

func load(t *testing.T, src string) *declfile.Unit {
	t.Helper()
	u, err := declfile.Load(context.Background(), nil, "test.yaml", []byte(src))
	require.NoError(t, err)
	return u
}

func loadErr(t *testing.T, src string) error {
	t.Helper()
	u, err := declfile.Load(context.Background(), nil, "test.yaml", []byte(src))
	require.Error(t, err)
	assert.Nil(t, u)
	return err
}

func TestLoadUnit(t *testing.T) {
	u := load(t, shapes)
	assert.Equal(t, "test.yaml", u.Name)
	assert.Equal(t, 19, u.Arena.Len())
	assert.Len(t, u.Entries(), 9)
	decls := u.Decls()
	require.Len(t, decls, 7)
	var names []string
	for _, d := range decls {
		names = append(names, d.Name())
	}
	assert.Equal(t, []string{"size_t", "point", "value", "color", "area", "origin", "names"}, names)

	stats := u.Arena.Stats()
	assert.Equal(t, 1, stats.Count(ast.KindTypedef))
	assert.Equal(t, 2, stats.Count(ast.KindStruct))
	assert.Equal(t, 5, stats.Count(ast.KindField))
	assert.Equal(t, 1, stats.Count(ast.KindEnum))
	assert.Equal(t, 4, stats.Count(ast.KindEnumConstant))
	assert.Equal(t, 1, stats.Count(ast.KindFunction))
	assert.Equal(t, 2, stats.Count(ast.KindParmVariable))
	assert.Equal(t, 1, stats.Count(ast.KindBlockVariable))
	assert.Equal(t, 2, stats.Count(ast.KindFileVariable))
	assert.Equal(t, u.Arena.Len(), stats.Total())
}

func TestLoadForwardThenDefine(t *testing.T) {
	u := load(t, shapes)
	entries := u.Entries()
	assert.False(t, entries[1].Defines)
	assert.True(t, entries[2].Defines)
	assert.Same(t, entries[1].Decl, entries[2].Decl)
	d, ok := u.LookupTag("point")
	require.True(t, ok)
	rec := d.(*ast.RecordDecl)
	assert.True(t, rec.IsDefinition())
	assert.Equal(t, 2, rec.NumMembers())
}

func TestLoadEnumNumbering(t *testing.T) {
	u := load(t, shapes)
	d, ok := u.LookupTag("color")
	require.True(t, ok)
	var values []int64
	for _, c := range d.(*ast.EnumDecl).Elements() {
		values = append(values, c.Value)
	}
	assert.Equal(t, []int64{0, 1, 4, 5}, values)
	c, ok := u.LookupOrdinary("PURPLE")
	require.True(t, ok)
	assert.Equal(t, ast.KindEnumConstant, c.Kind())

	u = load(t, `
decls:
  - enum: sign
    constants: [{name: NEG, value: -1}, {name: ZERO}, {name: POS}]
`)
	d, _ = u.LookupTag("sign")
	elems := d.(*ast.EnumDecl).Elements()
	require.Len(t, elems, 3)
	assert.Equal(t, int64(-1), elems[0].Value)
	assert.Equal(t, int64(1), elems[2].Value)
}

func TestLoadFunction(t *testing.T) {
	u := load(t, shapes)
	d, ok := u.LookupOrdinary("area")
	require.True(t, ok)
	f := d.(*ast.FunctionDecl)
	require.True(t, f.HasParams())
	assert.Equal(t, 2, f.NumParams())
	assert.Equal(t, "p", f.Param(0).Name())
	assert.Equal(t, "struct point *", f.Param(0).Type().String())
	assert.Equal(t, "size_t", f.Param(1).Type().String())
	assert.Equal(t, "int (struct point *, size_t)", f.Type().String())
	locals, ok := u.Body(f)
	require.True(t, ok)
	require.Len(t, locals, 1)
	assert.Equal(t, ast.StorageRegister, locals[0].Storage)
	assert.Equal(t, ast.KindBlockVariable, locals[0].Kind())

	entries := u.Entries()
	assert.True(t, entries[5].Defines)
	assert.False(t, entries[6].Defines)
}

func TestLoadTypes(t *testing.T) {
	u := load(t, shapes)
	d, ok := u.LookupOrdinary("names")
	require.True(t, ok)
	typ := d.(*ast.VarDecl).Type()
	assert.Equal(t, "char *[]", typ.String())
	arr, ok := typ.(*cdecl.TypeArray)
	require.True(t, ok)
	assert.True(t, arr.IsIncomplete())

	d, _ = u.LookupOrdinary("origin")
	v := d.(*ast.VarDecl)
	assert.Equal(t, ast.StorageStatic, v.Storage)
	assert.Equal(t, "struct point", v.Type().String())

	u = load(t, `
decls:
  - var: grid
    type: int [4] *
  - var: row
    type: "char *[4]"
`)
	d, _ = u.LookupOrdinary("grid")
	assert.Equal(t, "int (*)[4]", d.(*ast.VarDecl).Type().String())
	d, _ = u.LookupOrdinary("row")
	assert.Equal(t, "char *[4]", d.(*ast.VarDecl).Type().String())
}

func TestLoadImplicitTag(t *testing.T) {
	u := load(t, `
decls:
  - struct: node
    fields:
      - {name: next, type: struct node *}
      - {name: data, type: struct payload *}
`)
	d, ok := u.LookupTag("payload")
	require.True(t, ok)
	assert.False(t, d.(*ast.RecordDecl).IsDefinition())
	assert.Len(t, u.Entries(), 1)
	_, ok = u.Member("payload", "x")
	assert.False(t, ok)
	f, ok := u.Member("node", "next")
	require.True(t, ok)
	assert.Equal(t, "struct node *", f.Type().String())
}

func TestMember(t *testing.T) {
	u := load(t, shapes)
	f, ok := u.Member("point", "y")
	require.True(t, ok)
	assert.Equal(t, "y", f.Name())
	for _, q := range [][2]string{{"point", "z"}, {"color", "RED"}, {"nope", "x"}, {"value", ""}} {
		f, ok := u.Member(q[0], q[1])
		assert.False(t, ok, "%v", q)
		assert.Nil(t, f)
	}
}

func TestLoadTypedefRedeclaration(t *testing.T) {
	u := load(t, `
decls:
  - typedef: word
    type: unsigned int
  - typedef: word
    type: unsigned
`)
	assert.Len(t, u.Entries(), 2)
	assert.Equal(t, 1, u.Arena.Len())
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		msg  string
	}{
		{
			name: "redefine struct",
			src:  "decls:\n  - struct: p\n    fields: []\n  - struct: p\n    fields: []\n",
			msg:  "redefinition of struct p",
		},
		{
			name: "redefine enum",
			src:  "decls:\n  - enum: e\n    constants: []\n  - enum: e\n    constants: []\n",
			msg:  "redefinition of enum e",
		},
		{
			name: "tag mismatch",
			src:  "decls:\n  - struct: foo\n  - union: foo\n",
			msg:  `use of "union foo" with tag type that does not match previous declaration`,
		},
		{
			name: "unknown type with hint",
			src:  "decls:\n  - var: x\n    type: itn\n",
			msg:  `unknown type name "itn"; did you mean "int"?`,
		},
		{
			name: "unknown typedef hint",
			src:  "decls:\n  - typedef: size_t\n    type: unsigned long\n  - var: n\n    type: sizet\n",
			msg:  `unknown type name "sizet"; did you mean "size_t"?`,
		},
		{
			name: "two keywords",
			src:  "decls:\n  - var: x\n    func: y\n    type: int\n",
			msg:  "declaration must have exactly one of typedef, struct, union, class, enum, func, or var",
		},
		{
			name: "unknown key",
			src:  "decls:\n  - struct: p\n    feilds: []\n",
			msg:  `unknown key "feilds"`,
		},
		{
			name: "conflicting function types",
			src:  "decls:\n  - func: f\n    result: int\n  - func: f\n    result: long\n",
			msg:  `conflicting types for "f"`,
		},
		{
			name: "function redefinition",
			src:  "decls:\n  - func: f\n    result: int\n    locals: []\n  - func: f\n    result: int\n    locals: []\n",
			msg:  `redefinition of "f"`,
		},
		{
			name: "different kind of symbol",
			src:  "decls:\n  - typedef: x\n    type: int\n  - var: x\n    type: int\n",
			msg:  `redefinition of "x" as different kind of symbol`,
		},
		{
			name: "typedef different types",
			src:  "decls:\n  - typedef: x\n    type: int\n  - typedef: x\n    type: long\n",
			msg:  "typedef redefinition with different types (long vs int)",
		},
		{
			name: "enum constant collision",
			src:  "decls:\n  - enum: a\n    constants: [{name: RED}]\n  - enum: b\n    constants: [{name: RED}]\n",
			msg:  `redefinition of "RED"`,
		},
		{
			name: "duplicate member",
			src:  "decls:\n  - struct: s\n    fields: [{name: x, type: int}, {name: x, type: float}]\n",
			msg:  `duplicate member "x"`,
		},
		{
			name: "register at file scope",
			src:  "decls:\n  - var: x\n    type: int\n    storage: register\n",
			msg:  "illegal storage class register on file-scoped variable",
		},
		{
			name: "auto function",
			src:  "decls:\n  - func: f\n    result: int\n    storage: auto\n",
			msg:  "illegal storage class auto on function",
		},
		{
			name: "unknown storage class",
			src:  "decls:\n  - var: x\n    type: int\n    storage: global\n",
			msg:  `unknown storage class "global"`,
		},
		{
			name: "void parameter",
			src:  "decls:\n  - func: f\n    result: int\n    params: [{type: void}]\n",
			msg:  "parameter 1 has incomplete type void",
		},
		{
			name: "array result",
			src:  "decls:\n  - func: f\n    result: int [3]\n",
			msg:  "function cannot return array type",
		},
		{
			name: "bad array size",
			src:  "decls:\n  - var: x\n    type: int [n]\n",
			msg:  `bad array size "n" in type "int [n]"`,
		},
		{
			name: "missing bracket",
			src:  "decls:\n  - var: x\n    type: int [3\n",
			msg:  `missing ']' in type "int [3"`,
		},
		{
			name: "missing type",
			src:  "decls:\n  - var: x\n",
			msg:  "missing type",
		},
		{
			name: "static follows non-static",
			src:  "decls:\n  - var: x\n    type: int\n  - var: x\n    type: int\n    storage: static\n",
			msg:  `static declaration of "x" follows non-static declaration`,
		},
		{
			name: "variable type change",
			src:  "decls:\n  - var: x\n    type: int\n  - var: x\n    type: long\n",
			msg:  `redefinition of "x" with a different type: long vs int`,
		},
		{
			name: "duplicate parameter",
			src:  "decls:\n  - func: f\n    result: int\n    params: [{name: a, type: int}, {name: a, type: int}]\n",
			msg:  `redefinition of parameter "a"`,
		},
		{
			name: "local shadows parameter",
			src:  "decls:\n  - func: f\n    result: int\n    params: [{name: a, type: int}]\n    locals: [{name: a, type: int}]\n",
			msg:  `redefinition of "a"`,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := loadErr(t, c.src)
			assert.ErrorContains(t, err, c.msg)
		})
	}
}

func TestLoadErrorPosition(t *testing.T) {
	src := `decls:
  - struct: point
    fields: [{name: x, type: int}]
  - struct: point
    fields: []
`
	err := loadErr(t, src)
	expected := `redefinition of struct point in test.yaml at line 4, column 13:
  - struct: point
        === ^ ===`
	assert.EqualError(t, err, expected)
}

func TestEnumValueOverflow(t *testing.T) {
	src := `decls:
  - enum: e
    constants:
      - {name: A, value: 9223372036854775807}
      - {name: B}
      - {name: C, value: 1}
      - {name: D}
`
	err := loadErr(t, src)
	var list srcfiles.ErrorList
	require.True(t, errors.As(err, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "overflow in enumeration values", list[0].Msg)
	assert.Equal(t, srcfiles.Position{Line: 5, Column: 16}, list[0].Pos)

	u := load(t, "decls:\n  - enum: e\n    constants: [{name: MAX, value: 9223372036854775807}]\n")
	d, ok := u.LookupOrdinary("MAX")
	require.True(t, ok)
	assert.Equal(t, int64(math.MaxInt64), d.(*ast.EnumConstantDecl).Value)
}

func TestLoadErrorsAccumulate(t *testing.T) {
	err := loadErr(t, "decls:\n  - var: x\n    type: itn\n  - var: y\n    type: lnog\n")
	var list srcfiles.ErrorList
	require.True(t, errors.As(err, &list))
	require.Len(t, list, 2)
	assert.Equal(t, 3, list[0].Pos.Line)
	assert.Equal(t, 5, list[1].Pos.Line)
	assert.Contains(t, list[1].Msg, `did you mean "long"?`)
}

func TestLoadSyntaxError(t *testing.T) {
	err := loadErr(t, "decls: [\n")
	assert.ErrorContains(t, err, "test.yaml: yaml:")
}

func TestLoadEmpty(t *testing.T) {
	u := load(t, "")
	assert.Empty(t, u.Decls())
	assert.Zero(t, u.Arena.Len())
}

func TestLoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := declfile.Load(ctx, nil, "test.yaml", []byte(shapes))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	_, err := declfile.Load(context.Background(), zap.New(core), "shapes.yaml", []byte(shapes))
	require.NoError(t, err)
	forward := logs.FilterMessage("forward declaration").All()
	require.Len(t, forward, 3)
	assert.Equal(t, "shapes.yaml", forward[0].ContextMap()["unit"])
	assert.Equal(t, "point", forward[0].ContextMap()["name"])
	assert.Equal(t, 4, logs.FilterMessage("definition").Len())
	funcs := logs.FilterMessage("function").All()
	require.Len(t, funcs, 1)
	assert.Equal(t, "int (struct point *, size_t)", funcs[0].ContextMap()["type"])
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.yaml", "b.yaml", "c.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(shapes), 0666))
		paths = append(paths, path)
	}
	units, err := declfile.LoadFiles(context.Background(), zap.NewNop(), paths)
	require.NoError(t, err)
	require.Len(t, units, 3)
	for k, u := range units {
		assert.Equal(t, paths[k], u.Name)
		assert.Equal(t, 19, u.Arena.Stats().Total())
	}
	assert.NotSame(t, units[0].Arena.Stats(), units[1].Arena.Stats())

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("decls:\n  - var: x\n"), 0666))
	_, err = declfile.LoadFiles(context.Background(), nil, append(paths, bad))
	assert.ErrorContains(t, err, "missing type in "+bad)

	_, err = declfile.LoadFiles(context.Background(), nil, []string{filepath.Join(dir, "missing.yaml")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSuggest(t *testing.T) {
	hint, ok := declfile.Suggest("pont", []string{"x", "point", "y"})
	require.True(t, ok)
	assert.Equal(t, "point", hint)
	_, ok = declfile.Suggest("zzz", []string{"int"})
	assert.False(t, ok)
	_, ok = declfile.Suggest("x", []string{"x"})
	assert.False(t, ok)
	_, ok = declfile.Suggest("x", nil)
	assert.False(t, ok)
	hint, _ = declfile.Suggest("unsigned lnog", cdecl.PrimitiveNames())
	assert.Equal(t, "unsigned long", hint)
}

func TestLookupMember(t *testing.T) {
	u := load(t, shapes+`
  - struct: node
  - enum: mode
`)
	f, err := u.LookupMember("point", "x")
	require.NoError(t, err)
	assert.Equal(t, "x", f.Name())

	cases := []struct {
		tag, field, msg string
	}{
		{"pont", "x", `no tag named "pont"; did you mean "point"?`},
		{"zzzzzzzz", "x", `no tag named "zzzzzzzz"`},
		{"color", "RED", `"color" is an enum, not a struct, union, or class`},
		{"node", "next", `incomplete definition of type "struct node"`},
		{"point", "yy", `no member named "yy" in struct point; did you mean "y"?`},
		{"value", "q", `no member named "q" in union value`},
	}
	for _, c := range cases {
		_, err := u.LookupMember(c.tag, c.field)
		assert.EqualError(t, err, c.msg)
	}
}
