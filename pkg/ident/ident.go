// Package ident interns identifier spellings.  Each distinct spelling maps to
// exactly one *Ident within a Table so identifiers compare with ==.
package ident

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

type Ident struct {
	name string
}

// Name returns the spelling of id or "" if id is nil.
func (id *Ident) Name() string {
	if id == nil {
		return ""
	}
	return id.name
}

func (id *Ident) String() string {
	return id.Name()
}

// Table is an identifier table.  Spellings are interned in Unicode
// normalization form C so canonically equivalent spellings yield the same
// Ident.
type Table struct {
	mu     sync.RWMutex
	idents map[string]*Ident
}

func NewTable() *Table {
	return &Table{idents: make(map[string]*Ident)}
}

// Intern returns the Ident for name, creating it if needed.
func (t *Table) Intern(name string) (*Ident, error) {
	if name == "" {
		return nil, fmt.Errorf("empty identifier")
	}
	if !utf8.ValidString(name) {
		return nil, fmt.Errorf("bad identifier %q: invalid UTF-8", name)
	}
	name = norm.NFC.String(name)
	t.mu.RLock()
	id, ok := t.idents[name]
	t.mu.RUnlock()
	if ok {
		return id, nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.idents[name]; ok {
		return id, nil
	}
	id = &Ident{name}
	t.idents[name] = id
	return id, nil
}

func (t *Table) MustIntern(name string) *Ident {
	id, err := t.Intern(name)
	if err != nil {
		panic(err)
	}
	return id
}

// Lookup returns the Ident for name if it has been interned or nil otherwise.
func (t *Table) Lookup(name string) *Ident {
	if !utf8.ValidString(name) {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.idents[norm.NFC.String(name)]
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.idents)
}
