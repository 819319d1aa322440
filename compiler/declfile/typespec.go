package declfile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brimdata/cdecl"
	"github.com/brimdata/cdecl/compiler/ast"
	"github.com/brimdata/cdecl/compiler/srcfiles"
)

// parseType resolves a type spelling.  A spelling is a base type followed
// by any number of "*", "[N]", and "[]" suffixes applied left to right, so
// "char *[4]" is an array of four pointers to char and "int [4] *" is a
// pointer to an array of four ints.  A base type is a primitive type name,
// a typedef name, or a tag keyword followed by a tag name.
func (l *loader) parseType(spelling string, pos srcfiles.Position) (cdecl.Type, bool) {
	s := strings.TrimSpace(spelling)
	if s == "" {
		l.error(pos, "missing type")
		return nil, false
	}
	base, suffix := s, ""
	if i := strings.IndexAny(s, "*["); i >= 0 {
		base, suffix = strings.TrimSpace(s[:i]), s[i:]
	}
	typ, ok := l.baseType(base, spelling, pos)
	if !ok {
		return nil, false
	}
	for suffix = strings.TrimSpace(suffix); suffix != ""; suffix = strings.TrimSpace(suffix) {
		switch suffix[0] {
		case '*':
			typ = l.unit.Types.LookupTypePointer(typ)
			suffix = suffix[1:]
		case '[':
			end := strings.IndexByte(suffix, ']')
			if end < 0 {
				l.errorf(pos, "missing ']' in type %q", spelling)
				return nil, false
			}
			n := -1
			if size := strings.TrimSpace(suffix[1:end]); size != "" {
				v, err := strconv.Atoi(size)
				if err != nil || v < 0 {
					l.errorf(pos, "bad array size %q in type %q", size, spelling)
					return nil, false
				}
				n = v
			}
			typ = l.unit.Types.LookupTypeArray(typ, n)
			suffix = suffix[end+1:]
		default:
			l.errorf(pos, "unexpected %q in type %q", suffix[:1], spelling)
			return nil, false
		}
	}
	return typ, true
}

func (l *loader) baseType(base, spelling string, pos srcfiles.Position) (cdecl.Type, bool) {
	words := strings.Fields(base)
	if len(words) == 0 {
		l.errorf(pos, "missing base type in %q", spelling)
		return nil, false
	}
	if tag, ok := cdecl.LookupTag(words[0]); ok {
		if len(words) != 2 {
			l.errorf(pos, "%s type requires a single tag name in %q", tag, spelling)
			return nil, false
		}
		d, ok := l.tagDecl(ast.KindOfTag(tag), words[1], pos)
		if !ok {
			return nil, false
		}
		typ, err := l.unit.Types.LookupTypeTag(tag, d.Name())
		if err != nil {
			l.error(pos, err.Error())
			return nil, false
		}
		return typ, true
	}
	if typ := cdecl.LookupPrimitive(base); typ != nil {
		return typ, true
	}
	if len(words) == 1 {
		if id := l.unit.Idents.Lookup(words[0]); id != nil {
			if typ := l.unit.Types.LookupTypeDef(id.Name()); typ != nil {
				return typ, true
			}
		}
	}
	l.error(pos, unknownType(base, l.unit.Types))
	return nil, false
}

func unknownType(name string, types *cdecl.Context) string {
	candidates := append(cdecl.PrimitiveNames(), types.TypeDefNames()...)
	return withHint(fmt.Sprintf("unknown type name %q", name), name, candidates)
}
