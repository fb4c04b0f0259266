// Package scope implements the lexically-scoped symbol table described in
// the specification's §4.3: a flat, append-only vector of entries, each
// pointing at its lexical parent by index, giving an O(depth) parent-chain
// walk for lookup. Struct/union/enum tag names and ordinary identifiers
// are kept in separate namespaces, looked up via separate entry points.
package scope

import (
	"fmt"

	"github.com/cc23/cc23/internal/ctype"
	"github.com/cc23/cc23/internal/token"
)

// Index addresses one entry in a Table. Index zero is the reserved NONE
// sentinel: the parent of file scope, and the "not found" return value.
type Index int

// None is the sentinel index, the root of every parent chain.
const None Index = 0

// Storage classifies a declaration's storage-class-specifier. It is kept
// off the Type identity per the specification's storage-class-vs-type
// invariant.
type Storage int

const (
	StorageNone Storage = iota
	Auto
	Register
	Static
	Extern
	ThreadLocal
	Typedef
	Constexpr
)

// Namespace distinguishes the two lookup universes C maintains: ordinary
// identifiers (variables, functions, typedefs, enumerators) and
// struct/union/enum tags. The specification's ns_tag flag is implemented
// here as two distinct entry points rather than a flag a single lookup
// path ignores.
type Namespace int

const (
	Ordinary Namespace = iota
	Tag
)

// Entry is one declared name: an identifier or tag, bound to a canonical
// type, storage class, and lexical position. IRIndex is a version-counter
// slot that internal/ir does not read or write: its SSA builder tracks
// each variable's current value per basic block instead.
type Entry struct {
	Name      string
	Tok       token.Token
	Parent    Index
	Depth     int
	Type      ctype.Index
	Storage   Storage
	Namespace Namespace
	IsGlobal  bool

	IRIndex int // version-counter slot; unused by internal/ir
}

// Table is the append-only scope arena owned by one translation unit.
// Index 0 is reserved as the NONE sentinel (no entry, no parent).
type Table struct {
	entries []Entry
}

// NewTable creates a Table with the sentinel entry at index 0.
func NewTable() *Table {
	return &Table{entries: []Entry{{Name: "", Parent: None}}}
}

// At returns the Entry stored at idx.
func (t *Table) At(idx Index) *Entry { return &t.entries[idx] }

// Len reports how many entries (including the sentinel) the table holds.
func (t *Table) Len() int { return len(t.entries) }

// RedefinitionError is returned by Declare when name is already visible at
// the same block depth in the same parent chain.
type RedefinitionError struct {
	Name     string
	Tok      token.Token
	Previous token.Token
}

func (e *RedefinitionError) Error() string {
	return fmt.Sprintf("redefinition of %q", e.Name)
}

// Declare allocates a new Entry for name, chained under current. It walks
// parents only while entry.Depth == depth (the specification's redefinition
// contract): if any such entry in namespace ns matches name, Declare fails
// without creating an entry. Otherwise it appends a new entry whose parent
// is current and returns its index.
func (t *Table) Declare(tok token.Token, current Index, depth int, ty ctype.Index, storage Storage, ns Namespace) (Index, error) {
	name := tok.Text
	for p := current; p != None; {
		e := t.At(p)
		if e.Depth != depth {
			break
		}
		if e.Namespace == ns && e.Name == name {
			return None, &RedefinitionError{Name: name, Tok: tok, Previous: e.Tok}
		}
		p = e.Parent
	}
	idx := Index(len(t.entries))
	t.entries = append(t.entries, Entry{
		Name: name, Tok: tok, Parent: current, Depth: depth,
		Type: ty, Storage: storage, Namespace: ns, IsGlobal: depth == 0,
	})
	return idx, nil
}

// UndeclaredError is returned by Lookup/LookupTag when no visible entry
// matches the requested name.
type UndeclaredError struct {
	Name string
	Tok  token.Token
}

func (e *UndeclaredError) Error() string {
	return fmt.Sprintf("undeclared identifier %q", e.Name)
}

// Lookup walks the parent chain from current looking for an ordinary
// (non-tag) entry named by tok's text, returning the nearest (greatest
// depth) match. It fails with UndeclaredError if the chain is exhausted.
func (t *Table) Lookup(tok token.Token, current Index) (Index, error) {
	return t.lookupNS(tok, current, Ordinary)
}

// LookupTag is Lookup's counterpart for the struct/union/enum tag
// namespace: it never matches an ordinary identifier entry, and vice
// versa, implementing the namespace separation the specification's
// ns_tag flag names but (in the source this repo is based on) the
// original resolver failed to actually apply at lookup time.
func (t *Table) LookupTag(tok token.Token, current Index) (Index, error) {
	return t.lookupNS(tok, current, Tag)
}

func (t *Table) lookupNS(tok token.Token, current Index, ns Namespace) (Index, error) {
	for p := current; p != None; {
		e := t.At(p)
		if e.Namespace == ns && e.Name == tok.Text {
			return p, nil
		}
		p = e.Parent
	}
	return None, &UndeclaredError{Name: tok.Text, Tok: tok}
}
