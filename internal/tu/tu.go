// Package tu defines the Translation Unit: the single owning root for a
// compilation, per the specification's §3 data model. It holds the source
// buffer, token vector, AST root, the append-only type and scope tables,
// the function list, the string-interning arena, and the fatal-abort flag.
package tu

import (
	"github.com/cc23/cc23/internal/ast"
	"github.com/cc23/cc23/internal/ctype"
	"github.com/cc23/cc23/internal/diag"
	"github.com/cc23/cc23/internal/ir"
	"github.com/cc23/cc23/internal/scope"
	"github.com/cc23/cc23/internal/token"
)

// TU is the owning root of one compilation. Every table it holds is
// append-only for the lifetime of the TU and is freed as a group when the
// TU itself is discarded; nothing within it is individually freed.
type TU struct {
	Name   string
	Source []byte

	Tokens []token.Token
	Root   *ast.Root

	Types  *ctype.Table
	Scopes *scope.Table
	Funcs  []*ir.Function

	Bag *diag.Bag

	interner map[string]string

	// Per-node bindings produced by internal/resolve. These are side
	// tables keyed by node identity rather than fields on every ast.Node,
	// since only declarators, identifier uses and sizeof nodes ever get one.
	NodeType  map[ast.Node]ctype.Index
	NodeScope map[ast.Node]scope.Index
}

// New creates an empty TU over the given source buffer. name is the
// source file name used in diagnostics.
func New(name string, src []byte) *TU {
	bag := diag.NewBag(name, src)
	return &TU{
		Name:      name,
		Source:    src,
		Types:     ctype.NewTable(),
		Scopes:    scope.NewTable(),
		Bag:       bag,
		interner:  make(map[string]string),
		NodeType:  make(map[ast.Node]ctype.Index),
		NodeScope: make(map[ast.Node]scope.Index),
	}
}

// Intern returns a canonical copy of s: repeated calls with equal strings
// return the identical underlying string value. Per specification §5,
// this is the single interning operation the string arena is written
// through; nothing else appends to it.
func (t *TU) Intern(s string) string {
	if v, ok := t.interner[s]; ok {
		return v
	}
	t.interner[s] = s
	return s
}

// SetAbort toggles the TU's fatal-abort flag: when set, the diagnostic bag
// renders and terminates the process on the first error instead of
// accumulating, per specification §5's cancellation policy.
func (t *TU) SetAbort(v bool) { t.Bag.Abort = v }
