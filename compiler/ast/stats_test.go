package ast_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/brimdata/cdecl"
	"github.com/brimdata/cdecl/compiler/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCounts(t *testing.T) {
	const nfuncs, nblock, nrecords = 3, 5, 4
	e := newEnv()
	for range nfuncs {
		e.fn("f")
	}
	for range nblock {
		e.arena.NewBlockVar(e.id("v"), cdecl.TypeInt, ast.StorageNone)
	}
	e.arena.NewRecord(ast.KindStruct, e.id("s"))
	e.arena.NewRecord(ast.KindUnion, e.id("u"))
	e.arena.NewRecord(ast.KindClass, e.id("c"))
	e.arena.NewRecord(ast.KindStruct, nil)

	stats := e.arena.Stats()
	assert.Equal(t, nfuncs, stats.Count(ast.KindFunction))
	assert.Equal(t, nblock, stats.Count(ast.KindBlockVariable))
	assert.Equal(t, nrecords, stats.Count(ast.KindStruct))
	assert.Equal(t, nrecords, stats.Count(ast.KindUnion))
	assert.Equal(t, 0, stats.Count(ast.KindEnum))
	assert.Equal(t, nfuncs+nblock+nrecords, stats.Total())

	r := stats.Report()
	require.Len(t, r.Buckets, 9)
	assert.Equal(t, nfuncs+nblock+nrecords, r.Total)
	var total int
	for _, b := range r.Buckets {
		assert.Positive(t, b.Size, b.Name)
		assert.Equal(t, b.Count*b.Size, b.Bytes, b.Name)
		total += b.Bytes
	}
	assert.Equal(t, total, r.TotalBytes)
	assert.Equal(t, "function", r.Buckets[0].Name)
	assert.Equal(t, nfuncs, r.Buckets[0].Count)
	assert.Equal(t, "struct/union/class", r.Buckets[5].Name)
	assert.Equal(t, nrecords, r.Buckets[5].Count)
}

func TestStatsRecordedOncePerDecl(t *testing.T) {
	e := newEnv()
	f := e.fn("f", cdecl.TypeInt)
	f.SetParams(e.parms(cdecl.TypeInt))
	rec := e.arena.NewRecord(ast.KindStruct, e.id("s"))
	rec.DefineBody([]*ast.FieldDecl{e.arena.NewField(e.id("x"), cdecl.TypeInt)})
	assert.Equal(t, e.arena.Len(), e.arena.Stats().Total())
	assert.Equal(t, 1, e.arena.Stats().Count(ast.KindParmVariable))
}

func TestStatsEnableIsSticky(t *testing.T) {
	stats := ast.NewStats()
	assert.False(t, stats.Enabled())
	assert.False(t, stats.Enable(false))
	assert.True(t, stats.Enable(true))
	assert.True(t, stats.Enable(false))
	assert.True(t, stats.Enabled())
}

func TestStatsAdd(t *testing.T) {
	a, b := ast.NewStats(), ast.NewStats()
	a.Record(ast.KindTypedef)
	b.Record(ast.KindTypedef)
	b.Record(ast.KindEnumConstant)
	b.Enable(true)
	a.Add(b)
	assert.Equal(t, 2, a.Count(ast.KindTypedef))
	assert.Equal(t, 1, a.Count(ast.KindEnumConstant))
	assert.True(t, a.Enabled())
}

func TestStatsConcurrentRecord(t *testing.T) {
	stats := ast.NewStats()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				stats.Record(ast.KindField)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 8000, stats.Count(ast.KindField))
}

func TestReportFormat(t *testing.T) {
	stats := ast.NewStats()
	stats.Record(ast.KindFunction)
	stats.Record(ast.KindFunction)
	r := stats.Report()
	var b strings.Builder
	_, err := r.WriteTo(&b)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	require.Len(t, lines, 12)
	assert.Equal(t, "*** Decl Stats:", lines[0])
	assert.Equal(t, "  2 decls total.", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "    2 function decls, "), lines[2])
	assert.Equal(t, "    0 typedef decls, ", lines[10][:len("    0 typedef decls, ")])
	assert.True(t, strings.HasPrefix(lines[11], "Total bytes = "), lines[11])
}

func TestRecordUnknownKindPanics(t *testing.T) {
	assert.Panics(t, func() { ast.NewStats().Record(ast.Kind(99)) })
}
