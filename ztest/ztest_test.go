package ztest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, name, src string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0666))
	return path
}

func TestFromYAMLFileUnknownField(t *testing.T) {
	path := writeYAML(t, "bad.yaml", "input: x\nquery: count()\n")
	_, err := FromYAMLFile(path)
	assert.ErrorContains(t, err, "field query not found")
}

func TestFromYAMLFileMultipleDocuments(t *testing.T) {
	path := writeYAML(t, "multi.yaml", "input: x\n---\ninput: y\n")
	_, err := FromYAMLFile(path)
	assert.EqualError(t, err, "file must contain one YAML document")
}

func TestCheck(t *testing.T) {
	assert.EqualError(t, (&ZTest{}).check(), "either an input field or script field must be present")
	assert.EqualError(t, (&ZTest{Script: "true"}).check(), "outputs field missing in a sh test")
	input := "decls: []"
	assert.EqualError(t, (&ZTest{Input: &input, Member: "point"}).check(), `member "point" must have the form tag.field`)
	data := "x"
	zt := &ZTest{Script: "true", Outputs: []File{{Name: "stdout", Data: &data, Source: "f"}}}
	assert.EqualError(t, zt.check(), "stdout: must specify at most one of data or source")
}

func TestShouldSkip(t *testing.T) {
	input := ""
	unit := &ZTest{Input: &input}
	script := &ZTest{Script: "true"}
	assert.Equal(t, "", unit.ShouldSkip(""))
	assert.Equal(t, "in-process test on script run", unit.ShouldSkip("/bin"))
	assert.Equal(t, "script test on in-process run", script.ShouldSkip(""))
	assert.Equal(t, "", script.ShouldSkip("/bin"))
	assert.Equal(t, "broken", (&ZTest{Input: &input, Skip: "broken"}).ShouldSkip(""))
}

func TestRunInternal(t *testing.T) {
	input := "decls:\n  - struct: point\n    fields: [{name: x, type: int}]\n"
	zt := &ZTest{Input: &input, Output: "struct point {\n  int x;\n};\n"}
	assert.NoError(t, zt.RunInternal(context.Background()))

	zt.Output = "struct point;\n"
	err := zt.RunInternal(context.Background())
	assert.ErrorContains(t, err, "expected and actual output differ")
	assert.ErrorContains(t, err, "+  int x;")

	zt = &ZTest{Input: &input, Member: "point.y", Error: "no member named \"y\" in struct point\n"}
	assert.NoError(t, zt.RunInternal(context.Background()))
}

func TestRunShell(t *testing.T) {
	stdout, stderr, err := RunShell(context.Background(), t.TempDir(), "", "cat; echo oops >&2", nil, []string{"ZTEST_X=1"})
	require.NoError(t, err)
	assert.Equal(t, "", stdout)
	assert.Equal(t, "oops\n", stderr)
}

func TestRunScript(t *testing.T) {
	data, expected := "hello\n", "HELLO\n"
	zt := &ZTest{
		Script:  "tr a-z A-Z < in.txt",
		Inputs:  []File{{Name: "in.txt", Data: &data}},
		Outputs: []File{{Name: "stdout", Data: &expected}},
	}
	assert.NoError(t, zt.RunScript(context.Background(), "", t.TempDir(), t.TempDir))

	zt.Outputs = []File{{Name: "stdout", Re: "^HEL+O$"}}
	assert.ErrorContains(t, zt.RunScript(context.Background(), "", t.TempDir(), t.TempDir), "does not match")
}
