package ast

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"unsafe"
)

type bucket int

// Statistics buckets in report order.  Structs, unions, and classes share
// the record bucket.
const (
	bucketFunction bucket = iota
	bucketBlockVar
	bucketFileVar
	bucketParmVar
	bucketField
	bucketRecord
	bucketEnum
	bucketEnumConst
	bucketTypedef
	numBuckets
)

var buckets = [numBuckets]struct {
	key  string
	name string
	size uintptr
}{
	{"function", "function", unsafe.Sizeof(FunctionDecl{})},
	{"block_var", "block variable", unsafe.Sizeof(VarDecl{})},
	{"file_var", "file variable", unsafe.Sizeof(VarDecl{})},
	{"parm_var", "parameter variable", unsafe.Sizeof(VarDecl{})},
	{"field", "field", unsafe.Sizeof(FieldDecl{})},
	{"record", "struct/union/class", unsafe.Sizeof(RecordDecl{})},
	{"enum", "enum", unsafe.Sizeof(EnumDecl{})},
	{"enum_constant", "enum constant", unsafe.Sizeof(EnumConstantDecl{})},
	{"typedef", "typedef", unsafe.Sizeof(TypedefDecl{})},
}

func bucketOf(k Kind) bucket {
	switch k {
	case KindFunction:
		return bucketFunction
	case KindBlockVariable:
		return bucketBlockVar
	case KindFileVariable:
		return bucketFileVar
	case KindParmVariable:
		return bucketParmVar
	case KindField:
		return bucketField
	case KindStruct, KindUnion, KindClass:
		return bucketRecord
	case KindEnum:
		return bucketEnum
	case KindEnumConstant:
		return bucketEnumConst
	case KindTypedef:
		return bucketTypedef
	}
	panic(fmt.Sprintf("ast: unknown declaration kind %d", int(k)))
}

// Stats counts the declarations created during a compilation session.
// An Arena records each declaration it creates exactly once.
//
// Stats also carries a collecting flag for callers that want to know
// whether statistics were requested.  The flag is a latch: once enabled it
// stays enabled.  Counting happens regardless of the flag.
//
// A Stats may be shared by goroutines.
type Stats struct {
	enabled atomic.Bool
	counts  [numBuckets]atomic.Uint64
}

func NewStats() *Stats {
	return &Stats{}
}

// Record counts one declaration of kind k.
func (s *Stats) Record(k Kind) {
	s.counts[bucketOf(k)].Add(1)
}

// Count returns the number of declarations recorded in the bucket of k.
// Struct, union, and class share a bucket.
func (s *Stats) Count(k Kind) int {
	return int(s.counts[bucketOf(k)].Load())
}

// Total returns the number of declarations recorded in all buckets.
func (s *Stats) Total() int {
	var n uint64
	for k := range s.counts {
		n += s.counts[k].Load()
	}
	return int(n)
}

// Enable turns the collecting flag on if on is true and returns the state
// of the flag.  Enable(false) leaves an enabled flag on.
func (s *Stats) Enable(on bool) bool {
	if on {
		s.enabled.Store(true)
	}
	return s.enabled.Load()
}

func (s *Stats) Enabled() bool {
	return s.enabled.Load()
}

// Add adds the counts of other to s.  If other is enabled, s becomes
// enabled too.
func (s *Stats) Add(other *Stats) {
	for k := range other.counts {
		s.counts[k].Add(other.counts[k].Load())
	}
	if other.Enabled() {
		s.Enable(true)
	}
}

type Bucket struct {
	// Key is a stable identifier for the bucket suitable for metric labels.
	Key  string
	Name string
	// Count is the number of declarations in the bucket.
	Count int
	// Size is the size in bytes of one declaration.
	Size int
	// Bytes is Count*Size.
	Bytes int
}

type Report struct {
	Buckets    []Bucket
	Total      int
	TotalBytes int
}

func (s *Stats) Report() Report {
	r := Report{Buckets: make([]Bucket, 0, numBuckets)}
	for k, b := range buckets {
		n := int(s.counts[k].Load())
		size := int(b.size)
		r.Buckets = append(r.Buckets, Bucket{
			Key:   b.key,
			Name:  b.name,
			Count: n,
			Size:  size,
			Bytes: n * size,
		})
		r.Total += n
		r.TotalBytes += n * size
	}
	return r
}

func (r Report) String() string {
	var b strings.Builder
	b.WriteString("*** Decl Stats:\n")
	fmt.Fprintf(&b, "  %d decls total.\n", r.Total)
	for _, bucket := range r.Buckets {
		fmt.Fprintf(&b, "    %d %s decls, %d each (%d bytes)\n", bucket.Count, bucket.Name, bucket.Size, bucket.Bytes)
	}
	fmt.Fprintf(&b, "Total bytes = %d\n", r.TotalBytes)
	return b.String()
}

func (r Report) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.String())
	return int64(n), err
}
