package cdecl

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"
	"sync"
	"unicode/utf8"
)

// A Context implements the type context of a translation unit.  The Context
// manages the transitive closure of Types so that each unique type
// corresponds to exactly one Type pointer allowing type equivalence to be
// determined by pointer comparison.  (Type pointers from distinct Contexts
// obviously do not have this property.)
type Context struct {
	mu       sync.RWMutex
	byID     []Type
	pointers map[Type]*TypePointer
	arrays   map[string]*TypeArray
	funcs    map[string]*TypeFunc
	tags     map[string]*TypeTag
	nameds   map[string]*TypeNamed
	typedefs map[string]*TypeNamed
}

func NewContext() *Context {
	return &Context{
		byID: make([]Type, IDTypeComplex, 2*IDTypeComplex),
	}
}

func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID = c.byID[:IDTypeComplex]
	c.pointers = nil
	c.arrays = nil
	c.funcs = nil
	c.tags = nil
	c.nameds = nil
	c.typedefs = nil
}

func (c *Context) nextIDWithLock() int {
	return len(c.byID)
}

func (c *Context) enterWithLock(typ Type) {
	c.byID = append(c.byID, typ)
}

func (c *Context) LookupType(id int) (Type, error) {
	if id < 0 {
		return nil, fmt.Errorf("type id (%d) cannot be negative", id)
	}
	if id < IDTypeComplex {
		return LookupPrimitiveByID(id)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if id >= len(c.byID) {
		return nil, fmt.Errorf("type id (%d) not in type context (size %d)", id, len(c.byID))
	}
	if typ := c.byID[id]; typ != nil {
		return typ, nil
	}
	return nil, fmt.Errorf("no type found for type id %d", id)
}

var keyPool = sync.Pool{
	New: func() interface{} {
		// Return a pointer to avoid allocation on conversion to
		// interface.
		buf := make([]byte, 64)
		return &buf
	},
}

func getKey() *[]byte {
	key := keyPool.Get().(*[]byte)
	*key = (*key)[:0]
	return key
}

func (c *Context) LookupTypePointer(elem Type) *TypePointer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pointers == nil {
		c.pointers = make(map[Type]*TypePointer)
	}
	if typ, ok := c.pointers[elem]; ok {
		return typ
	}
	typ := NewTypePointer(c.nextIDWithLock(), elem)
	c.enterWithLock(typ)
	c.pointers[elem] = typ
	return typ
}

// LookupTypeArray returns the array type of n elements of type elem.  A
// negative n denotes an array of unknown size.
func (c *Context) LookupTypeArray(elem Type, n int) *TypeArray {
	if n < 0 {
		n = -1
	}
	key := getKey()
	defer keyPool.Put(key)
	bytes := binary.LittleEndian.AppendUint32(*key, uint32(TypeID(elem)))
	bytes = binary.LittleEndian.AppendUint64(bytes, uint64(n))
	*key = bytes
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.arrays == nil {
		c.arrays = make(map[string]*TypeArray)
	}
	if typ, ok := c.arrays[string(bytes)]; ok {
		return typ
	}
	typ := NewTypeArray(c.nextIDWithLock(), elem, n)
	c.enterWithLock(typ)
	c.arrays[string(bytes)] = typ
	return typ
}

// LookupTypeFunc returns the prototyped function type with the given
// parameter and result types.  A function may not return an array or a
// function and a parameter may not have type void.
func (c *Context) LookupTypeFunc(params []Type, result Type, variadic bool) (*TypeFunc, error) {
	if result == nil {
		return nil, errors.New("function type has no result type")
	}
	switch TypeUnder(result).(type) {
	case *TypeArray:
		return nil, fmt.Errorf("function cannot return array type %s", result)
	case *TypeFunc:
		return nil, fmt.Errorf("function cannot return function type %s", result)
	}
	key := getKey()
	defer keyPool.Put(key)
	bytes := *key
	if variadic {
		bytes = append(bytes, 1)
	} else {
		bytes = append(bytes, 0)
	}
	bytes = binary.LittleEndian.AppendUint32(bytes, uint32(TypeID(result)))
	for k, p := range params {
		if p == nil {
			return nil, fmt.Errorf("parameter %d has no type", k+1)
		}
		if TypeUnder(p) == TypeVoid {
			return nil, fmt.Errorf("parameter %d has incomplete type void", k+1)
		}
		bytes = binary.LittleEndian.AppendUint32(bytes, uint32(TypeID(p)))
	}
	*key = bytes
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.funcs == nil {
		c.funcs = make(map[string]*TypeFunc)
	}
	if typ, ok := c.funcs[string(bytes)]; ok {
		return typ, nil
	}
	typ := NewTypeFunc(c.nextIDWithLock(), slices.Clone(params), result, variadic)
	c.enterWithLock(typ)
	c.funcs[string(bytes)] = typ
	return typ, nil
}

func (c *Context) MustLookupTypeFunc(params []Type, result Type, variadic bool) *TypeFunc {
	typ, err := c.LookupTypeFunc(params, result, variadic)
	if err != nil {
		panic(err)
	}
	return typ
}

// LookupTypeTag returns the type referring to the struct, union, class, or
// enum with the given tag name.
func (c *Context) LookupTypeTag(tag Tag, name string) (*TypeTag, error) {
	if name == "" {
		return nil, fmt.Errorf("%s type has no tag name", tag)
	}
	if !utf8.ValidString(name) {
		return nil, fmt.Errorf("bad tag name %q: invalid UTF-8", name)
	}
	key := getKey()
	defer keyPool.Put(key)
	bytes := append(*key, byte(tag))
	bytes = append(bytes, name...)
	*key = bytes
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tags == nil {
		c.tags = make(map[string]*TypeTag)
	}
	if typ, ok := c.tags[string(bytes)]; ok {
		return typ, nil
	}
	typ := NewTypeTag(c.nextIDWithLock(), tag, name)
	c.enterWithLock(typ)
	c.tags[string(bytes)] = typ
	return typ, nil
}

// LookupTypeDef returns the named type last bound to name by LookupTypeNamed.
// It returns nil if name is unbound.
func (c *Context) LookupTypeDef(name string) *TypeNamed {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.typedefs == nil {
		return nil
	}
	return c.typedefs[name]
}

// TypeDefNames returns the names bound by LookupTypeNamed in no
// particular order.
func (c *Context) TypeDefNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.typedefs))
	for name := range c.typedefs {
		names = append(names, name)
	}
	return names
}

// LookupTypeNamed returns the named type for name and inner.  It also binds
// name to that named type.  LookupTypeNamed returns an error if name is not a
// valid UTF-8 string or is a primitive type name.
func (c *Context) LookupTypeNamed(name string, inner Type) (*TypeNamed, error) {
	if !utf8.ValidString(name) {
		return nil, fmt.Errorf("bad type name %q: invalid UTF-8", name)
	}
	if LookupPrimitive(name) != nil {
		return nil, fmt.Errorf("bad type name %q: primitive type name", name)
	}
	if inner == nil {
		return nil, fmt.Errorf("bad type name %q: no underlying type", name)
	}
	key := getKey()
	defer keyPool.Put(key)
	bytes := binary.LittleEndian.AppendUint32(*key, uint32(len(name)))
	bytes = append(bytes, name...)
	bytes = binary.LittleEndian.AppendUint32(bytes, uint32(TypeID(inner)))
	*key = bytes
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.nameds == nil {
		c.nameds = make(map[string]*TypeNamed)
		c.typedefs = make(map[string]*TypeNamed)
	}
	if typ, ok := c.nameds[string(bytes)]; ok {
		c.typedefs[name] = typ
		return typ, nil
	}
	typ := NewTypeNamed(c.nextIDWithLock(), name, inner)
	c.typedefs[name] = typ
	c.enterWithLock(typ)
	c.nameds[string(bytes)] = typ
	return typ, nil
}
